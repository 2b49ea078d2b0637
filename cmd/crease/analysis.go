package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crease/crease/pkg/scoring"
	"github.com/crease/crease/pkg/stats"
)

func newAnalysisCmd() *cobra.Command {
	var (
		src       sourceOpts
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "analysis",
		Short: "Rank player performances and pick the man of the match",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, matchID, closeFn, err := openLedger(cmd.Context(), src, cfg, newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer closeFn()

			deliveries, err := svc.List(cmd.Context(), matchID, 0)
			if err != nil {
				return err
			}
			st := stats.Compute(deliveries)
			analysis := scoring.NewEngineFromWeights(cfg.Scoring.Weights).Rank(st.Batting(), st.Bowling())

			switch outputFmt {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			case "text":
				r := terminalRenderer(cfg)
				r.ShowBreakdown = true
				return r.RenderAnalysis(cmd.OutOrStdout(), analysis)
			}
			return fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}
