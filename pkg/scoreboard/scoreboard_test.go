package scoreboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crease/crease/pkg/cricket"
	"github.com/crease/crease/pkg/scoreboard"
)

func TestSummarize_ElevenRunOver(t *testing.T) {
	deliveries := []cricket.Delivery{
		{Seq: 1, Innings: 1, Over: 0, Ball: 1, Runs: 0, ExtrasKind: cricket.ExtrasNone},
		{Seq: 2, Innings: 1, Over: 0, Ball: 2, Runs: 4, ExtrasKind: cricket.ExtrasNone},
		{Seq: 3, Innings: 1, Over: 0, Ball: 3, Extras: 1, ExtrasKind: cricket.ExtrasWide},
		{Seq: 4, Innings: 1, Over: 0, Ball: 4, Runs: 6, Wicket: true, ExtrasKind: cricket.ExtrasNone},
	}

	sum := scoreboard.Summarize(deliveries)
	require.Contains(t, sum.Innings, 1)

	got := sum.Innings[1]
	assert.Equal(t, 11, got.Runs)
	assert.Equal(t, 1, got.Wickets)
	assert.Equal(t, 1, got.Extras)
	assert.Equal(t, 3, got.LegalBalls)
	assert.Equal(t, 0, got.Overs)
	assert.Equal(t, 3, got.BallsInCurrentOver)
	assert.Equal(t, "0.3", got.OversLabel())
	assert.Equal(t, scoreboard.Position{Innings: 1, Over: 0, Ball: 4}, sum.Position)
}

func TestSummarize_EmptyLedger(t *testing.T) {
	sum := scoreboard.Summarize(nil)
	assert.Empty(t, sum.Innings)
	assert.Equal(t, scoreboard.Position{Innings: 1}, sum.Position)
}

func TestSummarize_MultipleInningsAndOrdering(t *testing.T) {
	// Entered out of order: the second innings ball was appended first.
	deliveries := []cricket.Delivery{
		{Seq: 1, Innings: 2, Over: 0, Ball: 1, Runs: 2, ExtrasKind: cricket.ExtrasNone},
		{Seq: 2, Innings: 1, Over: 1, Ball: 1, Runs: 1, ExtrasKind: cricket.ExtrasNone},
		{Seq: 3, Innings: 1, Over: 0, Ball: 1, Extras: 4, ExtrasKind: cricket.ExtrasBye},
	}
	sum := scoreboard.Summarize(deliveries)

	assert.Equal(t, []int{1, 2}, sum.InningsNumbers())
	assert.Equal(t, 5, sum.Innings[1].Runs)
	assert.Equal(t, 4, sum.Innings[1].Extras)
	assert.Equal(t, 2, sum.Innings[1].LegalBalls)
	assert.Equal(t, 2, sum.Innings[2].Runs)
	assert.Equal(t, scoreboard.Position{Innings: 2, Over: 0, Ball: 1}, sum.Position)
}

func TestOversAndBalls(t *testing.T) {
	for legal := 0; legal <= 125; legal++ {
		overs, balls := scoreboard.OversAndBalls(legal)
		assert.Equal(t, legal/6, overs)
		assert.Equal(t, legal%6, balls)
		assert.Equal(t, legal, overs*6+balls)
	}
}

func TestProgression(t *testing.T) {
	deliveries := []cricket.Delivery{
		{Innings: 1, Over: 0, Ball: 1, Runs: 4},
		{Innings: 1, Over: 0, Ball: 2, Extras: 1, ExtrasKind: cricket.ExtrasWide},
		{Innings: 1, Over: 1, Ball: 1, Runs: 6},
		{Innings: 2, Over: 0, Ball: 1, Runs: 2},
	}
	got := scoreboard.Progression(deliveries)
	assert.Equal(t, []scoreboard.OverRuns{
		{Innings: 1, Over: 1, RunsInOver: 5, CumulativeRuns: 5},
		{Innings: 1, Over: 2, RunsInOver: 6, CumulativeRuns: 11},
		{Innings: 2, Over: 1, RunsInOver: 2, CumulativeRuns: 2},
	}, got)
}

func TestRecent(t *testing.T) {
	var deliveries []cricket.Delivery
	for b := 1; b <= 8; b++ {
		deliveries = append(deliveries, cricket.Delivery{Innings: 1, Over: (b - 1) / 6, Ball: (b-1)%6 + 1, Runs: b})
	}
	got := scoreboard.Recent(deliveries, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "0.6", got[0].Over)
	assert.Equal(t, "1.2", got[2].Over)
	assert.Equal(t, 8, got[2].Runs)

	assert.Len(t, scoreboard.Recent(deliveries, 20), 8)
}
