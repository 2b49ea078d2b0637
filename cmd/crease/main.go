// Package main provides the crease CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crease",
		Short: "Ball-by-ball cricket scoring and match analytics",
		Long: `Crease derives scorecards, batting and bowling figures, fall of wickets
and a man-of-the-match ranking from a recorded delivery ledger.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: search for .crease/config.yaml)")

	rootCmd.AddCommand(
		newScorecardCmd(),
		newAnalysisCmd(),
		newVerifyCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}
