package surface

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/crease/crease/pkg/scoring"
	"github.com/crease/crease/pkg/stats"
)

// TerminalRenderer renders a Scorecard as tables for a terminal.
type TerminalRenderer struct {
	NoColor          bool // also honored through the NO_COLOR environment variable
	ForceColor       bool // emit colors even when stdout is not a terminal
	ShowBreakdown    bool
	ShowPartnerships bool
}

func (r *TerminalRenderer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	switch {
	case r.noColor():
		c.DisableColor()
	case r.ForceColor:
		c.EnableColor()
	}
	return c
}

func (r *TerminalRenderer) noColor() bool {
	if r.NoColor {
		return true
	}
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func (r *TerminalRenderer) Render(w io.Writer, card *Scorecard) error {
	bold := r.style(color.Bold)

	if card.MatchID != "" {
		bold.Fprintf(w, "Match %s\n\n", card.MatchID)
	}

	innings := card.Summary.InningsNumbers()
	if len(innings) == 0 {
		fmt.Fprintln(w, "No deliveries recorded.")
		return nil
	}

	for _, n := range innings {
		score := card.Summary.Innings[n]
		bold.Fprintf(w, "Innings %d: %d/%d (%s overs)", n, score.Runs, score.Wickets, score.OversLabel())
		fmt.Fprintf(w, ", extras %d\n", score.Extras)

		if in := card.Statistics.ForInnings(n); in != nil {
			r.renderInnings(w, in)
		}
		fmt.Fprintln(w)
	}

	r.renderAnalysis(w, card.Analysis)
	return nil
}

// RenderAnalysis writes the ranked player scores followed by the man of the
// match and insights.
func (r *TerminalRenderer) RenderAnalysis(w io.Writer, a *scoring.Analysis) error {
	if a == nil || len(a.Players) == 0 {
		fmt.Fprintln(w, "No performances to rank.")
		return nil
	}

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Player", "Inns", "Role", "Points", "Figures"})
	for _, ps := range a.Players {
		tbl.AppendRow(table.Row{ps.Player, ps.Innings, string(ps.Role), fmt.Sprintf("%.1f", ps.Score), ps.Details})
	}
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w)

	r.renderAnalysis(w, a)
	return nil
}

func (r *TerminalRenderer) renderInnings(w io.Writer, in *stats.InningsStatistics) {
	bat := newTable()
	bat.AppendHeader(table.Row{"Batter", "R", "B", "4s", "6s", "SR"})
	for _, f := range in.Batting {
		bat.AppendRow(table.Row{f.Name, f.Runs, f.Balls, f.Fours, f.Sixes, rate(f.StrikeRate)})
	}
	fmt.Fprintln(w, bat.Render())

	bowl := newTable()
	bowl.AppendHeader(table.Row{"Bowler", "O", "R", "W", "ER"})
	for _, f := range in.Bowling {
		bowl.AppendRow(table.Row{f.Name, f.OversLabel(), f.RunsConceded, f.Wickets, rate(f.EconomyRate)})
	}
	fmt.Fprintln(w, bowl.Render())

	if len(in.FallOfWickets) > 0 {
		parts := make([]string, 0, len(in.FallOfWickets))
		for _, fw := range in.FallOfWickets {
			parts = append(parts, fmt.Sprintf("%d-%d (%s, %s)", fw.WicketNumber, fw.Score, fw.Player, fw.Over))
		}
		fmt.Fprintf(w, "Fall of wickets: %s\n", strings.Join(parts, ", "))
	}

	if r.ShowPartnerships && len(in.Partnerships) > 0 {
		fmt.Fprintln(w, "Partnerships:")
		for _, p := range in.Partnerships {
			label := ordinal(p.Wicket) + " wicket"
			if p.Unbroken {
				label += " (unbroken)"
			}
			fmt.Fprintf(w, "  %s: %d off %d (%s)\n", label, p.Runs, p.Balls, strings.Join(p.Batters, ", "))
		}
	}
}

func (r *TerminalRenderer) renderAnalysis(w io.Writer, a *scoring.Analysis) {
	if a == nil {
		return
	}

	if mom := a.ManOfTheMatch; mom != nil {
		fmt.Fprintf(w, "Man of the match: %s (%.1f points)\n",
			r.style(color.FgGreen, color.Bold).Sprint(mom.Player), mom.Score)
		fmt.Fprintf(w, "  %s\n", mom.Rationale)

		if r.ShowBreakdown {
			dim := r.style(color.Faint)
			for _, mr := range mom.Breakdown {
				sign := "+"
				if mr.Contribution < 0 {
					sign = ""
				}
				fmt.Fprintf(w, "    (%s%.1f) %s", sign, mr.Contribution, mr.Name)
				if mr.Evidence != "" {
					fmt.Fprintf(w, ": %s", dim.Sprint(mr.Evidence))
				}
				fmt.Fprintln(w)
			}
		}
		fmt.Fprintln(w)
	}

	if len(a.Insights) > 0 {
		fmt.Fprintln(w, "Insights:")
		bullet := r.style(color.FgCyan)
		for _, in := range a.Insights {
			fmt.Fprintf(w, "  %s %s\n", bullet.Sprint("•"), in.Message)
		}
	}
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Format.Header = text.FormatDefault
	return tbl
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
