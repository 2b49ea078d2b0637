package scoring

import (
	"fmt"

	"github.com/crease/crease/pkg/stats"
)

// BattingMetric scores one component of a batting performance.
type BattingMetric interface {
	// Key returns the machine-readable metric identifier.
	Key() string
	// Name returns the human-readable metric name.
	Name() string
	// EvaluateBatting computes the component's contribution for one innings.
	EvaluateBatting(f stats.BattingFigures) MetricResult
}

// BowlingMetric scores one component of a bowling performance.
type BowlingMetric interface {
	Key() string
	Name() string
	EvaluateBowling(f stats.BowlingFigures) MetricResult
}

// milestoneBonus sums every milestone reached by count.
func milestoneBonus(count int, ms []Milestone) (float64, []int) {
	var (
		bonus   float64
		reached []int
	)
	for _, m := range ms {
		if count >= m.Threshold {
			bonus += m.Bonus
			reached = append(reached, m.Threshold)
		}
	}
	return bonus, reached
}

func bandEvidence(label string, v float64, bands []Band) (float64, string) {
	b, ok := FirstMatch(bands, v)
	if !ok {
		return 0, fmt.Sprintf("%s %s in neutral band", label, formatRate(v))
	}
	return b.Adjustment, fmt.Sprintf("%s %s %s", label, formatRate(v), b)
}
