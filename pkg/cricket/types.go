// Package cricket defines the ball-by-ball data model shared by every Crease
// module: deliveries, extras, wickets and the match lifecycle.
package cricket

import (
	"sort"
	"strconv"
	"time"
)

// ExtrasKind classifies the extras awarded on a delivery.
type ExtrasKind string

const (
	ExtrasNone   ExtrasKind = "none"
	ExtrasWide   ExtrasKind = "wide"
	ExtrasNoBall ExtrasKind = "no-ball"
	ExtrasBye    ExtrasKind = "bye"
	ExtrasLegBye ExtrasKind = "leg-bye"
)

// ParseExtrasKind maps a scorer-entered extras type to an ExtrasKind.
// The empty string means no extras.
func ParseExtrasKind(s string) (ExtrasKind, bool) {
	switch ExtrasKind(s) {
	case "", ExtrasNone:
		return ExtrasNone, true
	case ExtrasWide, ExtrasNoBall, ExtrasBye, ExtrasLegBye:
		return ExtrasKind(s), true
	}
	return "", false
}

// Legal reports whether a delivery with this extras kind counts toward the
// six-ball over. Wides and no-balls are re-bowled.
func (k ExtrasKind) Legal() bool {
	return k != ExtrasWide && k != ExtrasNoBall
}

// Delivery is one ball bowled. Deliveries are immutable once recorded.
type Delivery struct {
	ID              string     `json:"id"`
	MatchID         string     `json:"match_id"`
	Seq             int64      `json:"seq"` // append order within the match
	Innings         int        `json:"innings"`
	Over            int        `json:"over_number"`       // 0-based
	Ball            int        `json:"ball_number"`       // as entered, 1-based
	LegalBall       int        `json:"legal_ball_number"` // derived at insert
	Batter          string     `json:"batsman"`
	Bowler          string     `json:"bowler"`
	Runs            int        `json:"runs"`
	Extras          int        `json:"extras"`
	ExtrasKind      ExtrasKind `json:"extras_type"`
	Wicket          bool       `json:"wicket"`
	WicketKind      *string    `json:"wicket_type,omitempty"`
	DismissedPlayer *string    `json:"wicket_player,omitempty"`
	Annotation      string     `json:"commentary,omitempty"`
	RecordedAt      time.Time  `json:"created_at"`
}

// TotalRuns is the runs added to the team total by this delivery.
func (d Delivery) TotalRuns() int {
	return d.Runs + d.Extras
}

// Legal reports whether the delivery counts toward the over.
func (d Delivery) Legal() bool {
	return d.ExtrasKind.Legal()
}

// OverLabel renders the scorer's "over.ball" position, e.g. "3.4".
func (d Delivery) OverLabel() string {
	return strconv.Itoa(d.Over) + "." + strconv.Itoa(d.Ball)
}

// Validate checks the fields a scorer submits. It does not look at the ledger.
func (d Delivery) Validate() error {
	switch {
	case d.MatchID == "":
		return Invalid("match id is required")
	case d.Innings < 1:
		return Invalid("innings must be at least 1")
	case d.Over < 0:
		return Invalid("over number must not be negative")
	case d.Ball < 1:
		return Invalid("ball number must be at least 1")
	case d.Batter == "":
		return Invalid("batter is required")
	case d.Bowler == "":
		return Invalid("bowler is required")
	case d.Runs < 0:
		return Invalid("runs must not be negative")
	case d.Extras < 0:
		return Invalid("extras must not be negative")
	}
	if _, ok := ParseExtrasKind(string(d.ExtrasKind)); !ok {
		return Invalid("unknown extras type " + strconv.Quote(string(d.ExtrasKind)))
	}
	return nil
}

// SortByPosition orders deliveries by (innings, over, ball), keeping append
// order for deliveries that share a position. The input is not modified.
func SortByPosition(ds []Delivery) []Delivery {
	out := make([]Delivery, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Innings != b.Innings {
			return a.Innings < b.Innings
		}
		if a.Over != b.Over {
			return a.Over < b.Over
		}
		return a.Ball < b.Ball
	})
	return out
}

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusSetup     MatchStatus = "setup"
	StatusLive      MatchStatus = "live"
	StatusPaused    MatchStatus = "paused"
	StatusCompleted MatchStatus = "completed"
)

// Valid reports whether s is a known status.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusSetup, StatusLive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// AcceptsScoring reports whether deliveries may be appended in this status.
func (s MatchStatus) AcceptsScoring() bool {
	return s == StatusLive
}
