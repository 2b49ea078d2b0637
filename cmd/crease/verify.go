package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var (
		src       sourceOpts
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay legal ball numbers and report stale entries",
		Long: `Replays the ledger in append order and compares every stored legal ball
number with the replayed one. Exits non-zero when any entry disagrees.`,
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

			issues, err := svc.Verify(cmd.Context(), matchID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFmt {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(issues); err != nil {
					return err
				}
			case "text":
				if len(issues) == 0 {
					fmt.Fprintln(out, "Ledger is consistent.")
					return nil
				}
				tbl := table.NewWriter()
				tbl.SetStyle(table.StyleLight)
				tbl.AppendHeader(table.Row{"Delivery", "Innings", "Position", "Stored", "Replayed"})
				for _, is := range issues {
					tbl.AppendRow(table.Row{is.DeliveryID, is.Innings, fmt.Sprintf("%d.%d", is.Over, is.Ball), is.Stored, is.Derived})
				}
				fmt.Fprintln(out, tbl.Render())
			default:
				return fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
			}

			if len(issues) > 0 {
				return fmt.Errorf("ledger has %d inconsistent legal ball numbers", len(issues))
			}
			return nil
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}
