// Package scoring implements the performance scoring engine behind the man of
// the match award. It scores batting and bowling figures with explainable,
// per-component breakdowns.
package scoring

// Role says which discipline a score was earned in.
type Role string

const (
	RoleBatting Role = "batting"
	RoleBowling Role = "bowling"
)

// MetricResult is the output of a single scoring component.
type MetricResult struct {
	Key          string  `json:"key"`          // machine key: "strike_rate_band"
	Name         string  `json:"name"`         // human name: "Strike rate"
	Contribution float64 `json:"contribution"` // points added (negative = penalty)
	Evidence     string  `json:"evidence,omitempty"`
}

// PlayerScore is one scored batting or bowling record.
type PlayerScore struct {
	Player    string         `json:"player"`
	Innings   int            `json:"innings"`
	Role      Role           `json:"type"`
	Score     float64        `json:"score"`
	Details   string         `json:"details"`
	Rationale string         `json:"reasoning"`
	Breakdown []MetricResult `json:"breakdown"`
}

// InsightKind classifies an informational insight.
type InsightKind string

const (
	InsightTopScorer      InsightKind = "top_scorer"
	InsightBestBowler     InsightKind = "best_bowler"
	InsightFastestScorer  InsightKind = "fastest_scorer"
	InsightMostEconomical InsightKind = "most_economical"
)

// Insight is a non-scoring observation about the match.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Player  string      `json:"player"`
	Value   float64     `json:"value"`
	Message string      `json:"message"`
}

// Analysis is the complete output of ranking a match's performances.
// ManOfTheMatch is nil when nobody faced or bowled a legal delivery.
type Analysis struct {
	ManOfTheMatch *PlayerScore  `json:"man_of_match"`
	Players       []PlayerScore `json:"player_scores"`
	Insights      []Insight     `json:"insights"`
}
