package main

import (
	"github.com/spf13/cobra"

	"github.com/habitkit/habit-tracker-api/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema in every configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.migrate(); err != nil {
			return err
		}
		logger.Info("Migrations applied", "stores", len(a.stores()))
		return nil
	},
}
