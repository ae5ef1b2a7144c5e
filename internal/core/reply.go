package core

import (
	"github.com/pgulin/placebot/internal/catalog"
	"github.com/pgulin/placebot/internal/route"
	"github.com/pgulin/placebot/internal/weather"
)

// Outcome classifies a reply for metrics and transport rendering.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeAmbiguous    Outcome = "ambiguous"
	OutcomeFailed       Outcome = "failed"
	OutcomeUnauthorized Outcome = "unauthorized"
)

// Reply is the unit handed back to the transport: plain-language text
// plus optional structured fields the transport may render richly.
// The core never formats platform-specific markup.
type Reply struct {
	Outcome Outcome `json:"outcome"`
	Text    string  `json:"text"`

	Place       *catalog.Place    `json:"place,omitempty"`
	Weather     *weather.Snapshot `json:"weather,omitempty"`
	Route       *route.Summary    `json:"route,omitempty"`
	Suggestions []catalog.Match   `json:"suggestions,omitempty"`

	// Notes name providers that failed while the rest of the reply
	// still succeeded (the degraded-but-useful case).
	Notes []string `json:"notes,omitempty"`
}
