package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the 'migrate' command
func NewMigrateCmd(opener *appOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the record store schema",
		Example: `  faqctl migrate
  faqctl migrate --store sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// opening the app applies the schema
			a, err := opener.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("store unreachable after migration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", a.Config.Store.Backend)
			return nil
		},
	}
}
