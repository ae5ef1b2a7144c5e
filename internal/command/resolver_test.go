package command

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgulin/placebot/internal/catalog"
)

func newTestResolver(t *testing.T, places []catalog.Place) *Resolver {
	t.Helper()
	c, err := catalog.New(places)
	require.NoError(t, err)
	return NewResolver(c)
}

func TestResolveByID(t *testing.T) {
	r := newTestResolver(t, []catalog.Place{
		{ID: "12", Name: "Central Park"},
		{ID: "7", Name: "Fabergé Museum"},
	})

	res := r.Resolve("12")
	require.Equal(t, ResolutionUnique, res.Kind)
	assert.Equal(t, "Central Park", res.Place.Name)
}

func TestResolveIDTakesPrecedenceOverSearch(t *testing.T) {
	// A place literally named "7" must lose to the place with id "7".
	r := newTestResolver(t, []catalog.Place{
		{ID: "1", Name: "7"},
		{ID: "7", Name: "Seventh Hall"},
	})

	res := r.Resolve("7")
	require.Equal(t, ResolutionUnique, res.Kind)
	assert.Equal(t, "Seventh Hall", res.Place.Name)
}

func TestResolveExactNameIsUnique(t *testing.T) {
	// The exact name wins even when other names contain the query.
	r := newTestResolver(t, []catalog.Place{
		{ID: "1", Name: "Central Park West Gallery"},
		{ID: "12", Name: "Central Park"},
	})

	res := r.Resolve("Central Park")
	require.Equal(t, ResolutionUnique, res.Kind)
	assert.Equal(t, "12", res.Place.ID)
}

func TestResolveSingleStrongMatchIsUnique(t *testing.T) {
	r := newTestResolver(t, []catalog.Place{
		{ID: "12", Name: "Central Park"},
		{ID: "3", Name: "Kunstkamera"},
	})

	res := r.Resolve("central")
	require.Equal(t, ResolutionUnique, res.Kind)
	assert.Equal(t, "12", res.Place.ID)
}

func TestResolveMultipleMatchesAreAmbiguous(t *testing.T) {
	r := newTestResolver(t, []catalog.Place{
		{ID: "1", Name: "State Hermitage Museum"},
		{ID: "2", Name: "State Russian Museum"},
	})

	res := r.Resolve("state")
	require.Equal(t, ResolutionAmbiguous, res.Kind)
	require.Len(t, res.Candidates, 2)
	// Ranked best first, insertion order breaking the tie.
	assert.Equal(t, "1", res.Candidates[0].Place.ID)
	assert.Equal(t, "2", res.Candidates[1].Place.ID)
}

func TestResolveSingleWeakMatchIsAmbiguous(t *testing.T) {
	// A lone fuzzy hit is a suggestion, not a silent resolution.
	r := newTestResolver(t, []catalog.Place{
		{ID: "3", Name: "Kunstkamera"},
		{ID: "12", Name: "Central Park"},
	})

	res := r.Resolve("knstkmra")
	require.Equal(t, ResolutionAmbiguous, res.Kind)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "3", res.Candidates[0].Place.ID)
}

func TestResolveCapsSuggestions(t *testing.T) {
	places := make([]catalog.Place, 0, 8)
	for i := 1; i <= 8; i++ {
		places = append(places, catalog.Place{
			ID:   fmt.Sprintf("%d", i),
			Name: fmt.Sprintf("Museum Hall %d", i),
		})
	}
	r := newTestResolver(t, places)

	res := r.Resolve("museum")
	require.Equal(t, ResolutionAmbiguous, res.Kind)
	assert.Len(t, res.Candidates, 5)
}

func TestResolveNotFound(t *testing.T) {
	r := newTestResolver(t, []catalog.Place{
		{ID: "12", Name: "Central Park"},
	})

	assert.Equal(t, ResolutionNotFound, r.Resolve("zzzzqqqq").Kind)
	assert.Equal(t, ResolutionNotFound, r.Resolve("").Kind)
	assert.Equal(t, ResolutionNotFound, r.Resolve("   ").Kind)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := newTestResolver(t, []catalog.Place{
		{ID: "12", Name: "Central Park"},
		{ID: "1", Name: "State Hermitage Museum"},
	})

	for i := 0; i < 3; i++ {
		res := r.Resolve("Central Park")
		require.Equal(t, ResolutionUnique, res.Kind)
		require.Equal(t, "12", res.Place.ID)
	}
}

func TestParse(t *testing.T) {
	name, ok := Parse("plan")
	require.True(t, ok)
	assert.Equal(t, Plan, name)

	// start is an alias for help.
	name, ok = Parse("start")
	require.True(t, ok)
	assert.Equal(t, Help, name)

	_, ok = Parse("fnord")
	assert.False(t, ok)
}
