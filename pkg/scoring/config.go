package scoring

import "fmt"

// Comparison is the predicate of a band.
type Comparison string

const (
	Greater Comparison = "gt"
	Less    Comparison = "lt"
)

// Band adjusts a score when a rate is strictly above or below a threshold.
type Band struct {
	Op         Comparison `yaml:"op" json:"op"`
	Threshold  float64    `yaml:"threshold" json:"threshold"`
	Adjustment float64    `yaml:"adjustment" json:"adjustment"`
}

// Matches reports whether v satisfies the band's predicate.
func (b Band) Matches(v float64) bool {
	switch b.Op {
	case Greater:
		return v > b.Threshold
	case Less:
		return v < b.Threshold
	}
	return false
}

func (b Band) String() string {
	op := string(b.Op)
	switch b.Op {
	case Greater:
		op = ">"
	case Less:
		op = "<"
	}
	return fmt.Sprintf("%s%g", op, b.Threshold)
}

// FirstMatch returns the first band in the list that v satisfies.
func FirstMatch(bands []Band, v float64) (Band, bool) {
	for _, b := range bands {
		if b.Matches(v) {
			return b, true
		}
	}
	return Band{}, false
}

// Milestone awards a bonus once a count reaches a threshold. Milestones are
// cumulative: a century also earns the half-century bonus.
type Milestone struct {
	Threshold int     `yaml:"threshold" json:"threshold"`
	Bonus     float64 `yaml:"bonus" json:"bonus"`
}

// Weights holds the scoring weights for all components.
type Weights struct {
	// Batting
	RunWeight         float64     `yaml:"run_weight"`
	FourBonus         float64     `yaml:"four_bonus"`
	SixBonus          float64     `yaml:"six_bonus"`
	StrikeRateBands   []Band      `yaml:"strike_rate_bands"`
	BattingMilestones []Milestone `yaml:"batting_milestones"`

	// Bowling
	WicketWeight      float64     `yaml:"wicket_weight"`
	EconomyBands      []Band      `yaml:"economy_bands"`
	BowlingMilestones []Milestone `yaml:"bowling_milestones"`

	// Insights only consider players with more than this many legal balls.
	InsightMinBalls int `yaml:"insight_min_balls"`
}

// Defaults returns the default scoring weights.
func Defaults() Weights {
	return Weights{
		RunWeight: 1,
		FourBonus: 2,
		SixBonus:  4,
		StrikeRateBands: []Band{
			{Op: Greater, Threshold: 150, Adjustment: 20},
			{Op: Greater, Threshold: 120, Adjustment: 10},
			{Op: Less, Threshold: 80, Adjustment: -10},
		},
		BattingMilestones: []Milestone{
			{Threshold: 50, Bonus: 15},
			{Threshold: 100, Bonus: 25},
		},

		WicketWeight: 20,
		// Order matters: the first matching band wins, so >10 must be
		// checked before >8.
		EconomyBands: []Band{
			{Op: Less, Threshold: 4, Adjustment: 15},
			{Op: Less, Threshold: 6, Adjustment: 8},
			{Op: Greater, Threshold: 10, Adjustment: -10},
			{Op: Greater, Threshold: 8, Adjustment: -5},
		},
		BowlingMilestones: []Milestone{
			{Threshold: 3, Bonus: 15},
			{Threshold: 5, Bonus: 25},
		},

		InsightMinBalls: 5,
	}
}

// Validate checks that every band has a known comparison.
func (w Weights) Validate() error {
	for _, set := range [][]Band{w.StrikeRateBands, w.EconomyBands} {
		for _, b := range set {
			if b.Op != Greater && b.Op != Less {
				return fmt.Errorf("band %q: unknown comparison %q (want gt or lt)", b.String(), b.Op)
			}
		}
	}
	if w.InsightMinBalls < 0 {
		return fmt.Errorf("insight_min_balls must be >= 0, got %d", w.InsightMinBalls)
	}
	return nil
}
