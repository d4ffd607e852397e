package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/habitkit/habit-tracker-api/internal/constants"
)

var rootCmd = &cobra.Command{
	Use:     constants.AppName,
	Short:   "Habit tracking API with local/cloud sync",
	Version: constants.Version,
	Long: `Habit tracking API.

Without a subcommand the HTTP server is started. In development habits are
kept in a local SQLite store and can be reconciled with a remote PostgreSQL
or MySQL store; in production only the remote store is used.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
