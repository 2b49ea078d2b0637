package stats

import "github.com/crease/crease/pkg/cricket"

// inningsBuilder accumulates one innings in a single pass.
type inningsBuilder struct {
	out        InningsStatistics
	batterIdx  map[string]int
	bowlerIdx  map[string]int
	teamScore  int
	wickets    int
	stand      *Partnership
	standNames map[string]bool
}

func newInningsBuilder(n int) *inningsBuilder {
	return &inningsBuilder{
		out:       InningsStatistics{Innings: n},
		batterIdx: make(map[string]int),
		bowlerIdx: make(map[string]int),
	}
}

func (b *inningsBuilder) batter(name string) *BattingFigures {
	i, ok := b.batterIdx[name]
	if !ok {
		i = len(b.out.Batting)
		b.batterIdx[name] = i
		b.out.Batting = append(b.out.Batting, BattingFigures{Name: name, Innings: b.out.Innings})
	}
	return &b.out.Batting[i]
}

func (b *inningsBuilder) bowler(name string) *BowlingFigures {
	i, ok := b.bowlerIdx[name]
	if !ok {
		i = len(b.out.Bowling)
		b.bowlerIdx[name] = i
		b.out.Bowling = append(b.out.Bowling, BowlingFigures{Name: name, Innings: b.out.Innings})
	}
	return &b.out.Bowling[i]
}

func (b *inningsBuilder) add(d cricket.Delivery) {
	bat := b.batter(d.Batter)
	bat.Runs += d.Runs
	if d.Legal() {
		bat.Balls++
	}
	switch d.Runs {
	case 4:
		bat.Fours++
	case 6:
		bat.Sixes++
	}

	bowl := b.bowler(d.Bowler)
	// Every extra counts against the bowler, byes and leg-byes included.
	bowl.RunsConceded += d.TotalRuns()
	if d.Legal() {
		bowl.Balls++
	}
	if d.Wicket {
		bowl.Wickets++
	}

	b.teamScore += d.TotalRuns()
	b.addToStand(d)

	if d.Wicket {
		b.wickets++
		b.out.FallOfWickets = append(b.out.FallOfWickets, FallOfWicket{
			Innings:      b.out.Innings,
			WicketNumber: b.wickets,
			Player:       dismissed(d),
			Score:        b.teamScore,
			Over:         d.OverLabel(),
			WicketKind:   deref(d.WicketKind),
		})
		b.closeStand(false)
	}
}

func (b *inningsBuilder) addToStand(d cricket.Delivery) {
	if b.stand == nil {
		b.stand = &Partnership{Innings: b.out.Innings, Wicket: b.wickets + 1}
		b.standNames = make(map[string]bool)
	}
	if !b.standNames[d.Batter] {
		b.standNames[d.Batter] = true
		b.stand.Batters = append(b.stand.Batters, d.Batter)
	}
	b.stand.Runs += d.TotalRuns()
	if d.Legal() {
		b.stand.Balls++
	}
}

func (b *inningsBuilder) closeStand(unbroken bool) {
	if b.stand == nil {
		return
	}
	b.stand.Unbroken = unbroken
	b.out.Partnerships = append(b.out.Partnerships, *b.stand)
	b.stand = nil
	b.standNames = nil
}

func (b *inningsBuilder) finish() InningsStatistics {
	b.closeStand(true)
	for i := range b.out.Batting {
		f := &b.out.Batting[i]
		f.StrikeRate = StrikeRate(f.Runs, f.Balls)
	}
	for i := range b.out.Bowling {
		f := &b.out.Bowling[i]
		f.EconomyRate = EconomyRate(f.RunsConceded, f.Balls)
	}
	return b.out
}

// Compute derives the statistics of a match. Deliveries are re-sorted into
// (innings, over, ball) order first, so the fall-of-wickets scores follow
// the order of play rather than the order of entry.
func Compute(deliveries []cricket.Delivery) *Statistics {
	st := &Statistics{}

	var cur *inningsBuilder
	for _, d := range cricket.SortByPosition(deliveries) {
		if cur == nil || cur.out.Innings != d.Innings {
			if cur != nil {
				st.Innings = append(st.Innings, cur.finish())
			}
			cur = newInningsBuilder(d.Innings)
		}
		cur.add(d)

		st.Totals.Deliveries++
		st.Totals.RunsOffBat += d.Runs
		if d.Wicket {
			st.Totals.Wickets++
		}
		if d.Runs == 4 || d.Runs == 6 {
			st.Totals.Boundaries++
		}
	}
	if cur != nil {
		st.Innings = append(st.Innings, cur.finish())
	}

	return st
}

// dismissed names the player out on d, falling back to the batter on strike
// when the scorer did not record one.
func dismissed(d cricket.Delivery) string {
	if d.DismissedPlayer != nil && *d.DismissedPlayer != "" {
		return *d.DismissedPlayer
	}
	return d.Batter
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
