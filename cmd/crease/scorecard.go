package main

import (
	"github.com/spf13/cobra"

	"github.com/crease/crease/pkg/scoring"
	"github.com/crease/crease/pkg/surface"
)

func newScorecardCmd() *cobra.Command {
	var (
		src       sourceOpts
		outputFmt string
		innings   int
	)

	cmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Render innings totals, figures and fall of wickets",
		Long: `Reads a match ledger and renders the innings summaries, batting and bowling
figures, fall of wickets, partnerships and the performance analysis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(outputFmt, cfg)
			if err != nil {
				return err
			}

			svc, matchID, closeFn, err := openLedger(cmd.Context(), src, cfg, newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer closeFn()

			deliveries, err := svc.List(cmd.Context(), matchID, innings)
			if err != nil {
				return err
			}
			card := surface.BuildScorecard(matchID, deliveries, scoring.NewEngineFromWeights(cfg.Scoring.Weights))
			return renderer.Render(cmd.OutOrStdout(), card)
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().IntVar(&innings, "innings", 0, "Restrict to one innings (0 for all)")
	return cmd
}
