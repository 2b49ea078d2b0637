// Package surface defines output rendering for match scorecards.
// Implementations handle different output targets: terminal and JSON.
package surface

import (
	"io"

	"github.com/crease/crease/pkg/cricket"
	"github.com/crease/crease/pkg/scoreboard"
	"github.com/crease/crease/pkg/scoring"
	"github.com/crease/crease/pkg/stats"
)

// Renderer produces formatted output from a Scorecard.
type Renderer interface {
	// Render writes the formatted scorecard to the writer.
	Render(w io.Writer, card *Scorecard) error
}

// Scorecard is every derived view of a match ledger at one point in time.
type Scorecard struct {
	MatchID     string                `json:"match_id"`
	Summary     *scoreboard.Summary   `json:"summary"`
	Statistics  *stats.Statistics     `json:"statistics"`
	Analysis    *scoring.Analysis     `json:"analysis"`
	Progression []scoreboard.OverRuns `json:"run_progression"`
}

// BuildScorecard derives a scorecard from the deliveries of one match.
func BuildScorecard(matchID string, deliveries []cricket.Delivery, engine *scoring.Engine) *Scorecard {
	st := stats.Compute(deliveries)
	return &Scorecard{
		MatchID:     matchID,
		Summary:     scoreboard.Summarize(deliveries),
		Statistics:  st,
		Analysis:    engine.Rank(st.Batting(), st.Bowling()),
		Progression: scoreboard.Progression(deliveries),
	}
}
