package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlaces() []Place {
	return []Place{
		{ID: "1", Name: "State Hermitage Museum", Lat: 59.94, Lon: 30.31},
		{ID: "2", Name: "State Russian Museum", Lat: 59.94, Lon: 30.33},
		{ID: "3", Name: "Kunstkamera", Lat: 59.94, Lon: 30.30},
		{ID: "12", Name: "Central Park", Lat: 59.98, Lon: 30.27},
	}
}

func TestLookupByID(t *testing.T) {
	c, err := New(testPlaces())
	require.NoError(t, err)

	p, ok := c.LookupByID("12")
	require.True(t, ok)
	assert.Equal(t, "Central Park", p.Name)

	// Surrounding whitespace is tolerated.
	p, ok = c.LookupByID(" 3 ")
	require.True(t, ok)
	assert.Equal(t, "Kunstkamera", p.Name)

	_, ok = c.LookupByID("99")
	assert.False(t, ok)
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Place{
		{ID: "1", Name: "A"},
		{ID: "1", Name: "B"},
	})
	require.Error(t, err)
}

func TestSearchTiers(t *testing.T) {
	c, err := New(testPlaces())
	require.NoError(t, err)

	// Exact match, case-insensitive.
	matches := c.Search("central park")
	require.NotEmpty(t, matches)
	assert.Equal(t, "12", matches[0].Place.ID)
	assert.Equal(t, ScoreExact, matches[0].Score)

	// Prefix beats substring.
	matches = c.Search("state")
	require.Len(t, matches, 2)
	assert.Equal(t, ScorePrefix, matches[0].Score)
	assert.Equal(t, ScorePrefix, matches[1].Score)
	// Ties keep catalog insertion order.
	assert.Equal(t, "1", matches[0].Place.ID)
	assert.Equal(t, "2", matches[1].Place.ID)

	// Substring.
	matches = c.Search("russian")
	require.NotEmpty(t, matches)
	assert.Equal(t, "2", matches[0].Place.ID)
	assert.Equal(t, ScoreSubstring, matches[0].Score)

	// Fuzzy hits score strictly below the substring tier.
	matches = c.Search("knstkmra")
	require.NotEmpty(t, matches)
	assert.Equal(t, "3", matches[0].Place.ID)
	assert.Less(t, matches[0].Score, ScoreSubstring)
	assert.Greater(t, matches[0].Score, 0)
}

func TestSearchEmptyQuery(t *testing.T) {
	c, err := New(testPlaces())
	require.NoError(t, err)

	assert.Empty(t, c.Search(""))
	assert.Empty(t, c.Search("   \t "))
}

func TestSearchNoMatch(t *testing.T) {
	c, err := New(testPlaces())
	require.NoError(t, err)

	assert.Empty(t, c.Search("zzzzqqqq"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	data := `[{"id":"1","name":"Hermitage","lat":59.94,"lon":30.31}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
