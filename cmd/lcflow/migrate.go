package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mysqlrepo "lcflow/internal/adapter/repository/mysql"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := a.openDB()
			if err != nil {
				return err
			}
			if err := mysqlrepo.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.cfg.DBDriver)
			return nil
		},
	}
}
