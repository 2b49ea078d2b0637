package cricket

import (
	"fmt"
	"sort"
)

// LegalBallNumber computes the legal ball number of a new delivery with the
// given extras kind, where prior holds the deliveries already recorded for the
// same (match, innings, over) in append order.
//
// A legal delivery is numbered one past the count of prior legal deliveries.
// A wide or no-ball reuses the number of the most recent prior legal delivery,
// or 1 when none has been bowled in the over yet.
func LegalBallNumber(prior []Delivery, kind ExtrasKind) int {
	if kind.Legal() {
		n := 0
		for _, d := range prior {
			if d.Legal() {
				n++
			}
		}
		return n + 1
	}
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].Legal() {
			return prior[i].LegalBall
		}
	}
	return 1
}

type overKey struct {
	innings int
	over    int
}

// Replay re-derives the legal ball number of every delivery by replaying the
// ledger in append order. The result is aligned with the input slice, which
// must already be in append order.
func Replay(ledger []Delivery) []int {
	legalCount := make(map[overKey]int)
	out := make([]int, len(ledger))
	for i, d := range ledger {
		k := overKey{d.Innings, d.Over}
		if d.Legal() {
			legalCount[k]++
			out[i] = legalCount[k]
			continue
		}
		if n := legalCount[k]; n > 0 {
			out[i] = n
		} else {
			out[i] = 1
		}
	}
	return out
}

// Inconsistency is a delivery whose stored legal ball number differs from the
// value derived by replay.
type Inconsistency struct {
	DeliveryID string `json:"delivery_id"`
	Innings    int    `json:"innings"`
	Over       int    `json:"over_number"`
	Ball       int    `json:"ball_number"`
	Stored     int    `json:"stored"`
	Derived    int    `json:"derived"`
}

// Err converts the inconsistency into a domain error.
func (c Inconsistency) Err() error {
	return &Error{
		Code:    CodeInconsistentLedger,
		Message: fmt.Sprintf("delivery %s at %d.%d (innings %d): stored legal ball %d, replay gives %d", c.DeliveryID, c.Over, c.Ball, c.Innings, c.Stored, c.Derived),
		Metadata: map[string]string{
			"delivery_id": c.DeliveryID,
		},
	}
}

// Verify replays the ledger and reports every delivery whose stored legal
// ball number disagrees with the replayed one. Deliveries are ordered by Seq
// before replay.
func Verify(ledger []Delivery) []Inconsistency {
	ordered := InAppendOrder(ledger)
	derived := Replay(ordered)

	var out []Inconsistency
	for i, d := range ordered {
		if d.LegalBall == derived[i] {
			continue
		}
		out = append(out, Inconsistency{
			DeliveryID: d.ID,
			Innings:    d.Innings,
			Over:       d.Over,
			Ball:       d.Ball,
			Stored:     d.LegalBall,
			Derived:    derived[i],
		})
	}
	return out
}

// InAppendOrder returns a copy of ds sorted by Seq.
func InAppendOrder(ds []Delivery) []Delivery {
	out := make([]Delivery, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out
}

// InOver filters ds to the deliveries of one (innings, over), preserving order.
func InOver(ds []Delivery, innings, over int) []Delivery {
	var out []Delivery
	for _, d := range ds {
		if d.Innings == innings && d.Over == over {
			out = append(out, d)
		}
	}
	return out
}
