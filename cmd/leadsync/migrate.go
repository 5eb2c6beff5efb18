package main

import (
	"github.com/spf13/cobra"

	"github.com/xavierca1/leadsync/internal/infra/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the leads and interactions tables if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openSQL(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info("database schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
