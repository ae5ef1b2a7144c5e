// Package stats formats usage counters into the admin summary.
package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/pgulin/placebot/internal/store"
)

// Summary is the admin-only usage view: per-command counts plus the
// total number of feedback entries.
type Summary struct {
	Commands      map[string]int64 `json:"commands"`
	TotalFeedback int64            `json:"totalFeedback"`
}

// Reporter reads counters from the store. Authorization is the
// caller's responsibility: the engine rejects non-admin requests
// before the reporter runs.
type Reporter struct {
	store store.Store
}

func NewReporter(s store.Store) *Reporter {
	return &Reporter{store: s}
}

// Summary reads the current counters.
func (r *Reporter) Summary(ctx context.Context) (Summary, error) {
	counts, err := r.store.UsageCounts(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("read usage counters: %w", err)
	}

	feedback, err := r.store.FeedbackCount(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("read feedback count: %w", err)
	}

	return Summary{Commands: counts, TotalFeedback: feedback}, nil
}

// Lines renders the summary as plain-language text lines, commands
// ordered by descending count (ties alphabetically).
func (s Summary) Lines() []string {
	type pair struct {
		command string
		count   int64
	}
	pairs := make([]pair, 0, len(s.Commands))
	for cmd, n := range s.Commands {
		pairs = append(pairs, pair{cmd, n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].command < pairs[j].command
	})

	lines := make([]string, 0, len(pairs)+1)
	for _, p := range pairs {
		lines = append(lines, fmt.Sprintf("/%s — %d", p.command, p.count))
	}
	lines = append(lines, fmt.Sprintf("feedback entries: %d", s.TotalFeedback))
	return lines
}
