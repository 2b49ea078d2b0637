package scoring

// BattingMetrics returns the batting components configured from w.
func BattingMetrics(w Weights) []BattingMetric {
	return []BattingMetric{
		&RunsMetric{Weight: w.RunWeight},
		&BoundaryMetric{FourBonus: w.FourBonus, SixBonus: w.SixBonus},
		&StrikeRateMetric{Bands: w.StrikeRateBands},
		&BattingMilestoneMetric{Milestones: w.BattingMilestones},
	}
}

// BowlingMetrics returns the bowling components configured from w.
func BowlingMetrics(w Weights) []BowlingMetric {
	return []BowlingMetric{
		&WicketsMetric{Weight: w.WicketWeight},
		&EconomyMetric{Bands: w.EconomyBands},
		&BowlingMilestoneMetric{Milestones: w.BowlingMilestones},
	}
}

// DefaultEngine returns an engine with the standard components and weights.
func DefaultEngine() *Engine {
	return NewEngineFromWeights(Defaults())
}

// NewEngineFromWeights builds an engine whose components use w.
func NewEngineFromWeights(w Weights) *Engine {
	e := NewEngine(BattingMetrics(w), BowlingMetrics(w))
	e.insightMinBalls = w.InsightMinBalls
	return e
}
