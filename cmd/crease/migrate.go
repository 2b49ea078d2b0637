package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crease/crease/internal/platform"
)

func newMigrateCmd() *cobra.Command {
	var driver, url string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := platform.Open(cmd.Context(), driver, url)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := platform.AutoMigrate(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s).\n", db.Dialect)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "database-driver", "sqlite", "Database driver: postgres or sqlite")
	cmd.Flags().StringVar(&url, "database-url", "", "Database URL, or file path for sqlite (required)")
	_ = cmd.MarkFlagRequired("database-url")
	return cmd
}
