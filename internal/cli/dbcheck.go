package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/ai-interviewer/internal/config"
)

var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Check the database connection and list its tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		log := getLoggerFromContext(cmd.Context())

		db, err := config.Connect(cfg, log)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		var version string
		if err := db.WithContext(cmd.Context()).Raw("SELECT version()").Scan(&version).Error; err != nil {
			return fmt.Errorf("failed to query server version: %w", err)
		}

		tables, err := db.Migrator().GetTables()
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✅ Successfully connected to PostgreSQL")
		fmt.Fprintf(out, "Server: %s\n", version)
		if len(tables) == 0 {
			fmt.Fprintln(out, "No tables found; run serve once to migrate")
			return nil
		}
		fmt.Fprintln(out, "Tables:")
		for _, table := range tables {
			fmt.Fprintf(out, "  - %s\n", table)
		}
		return nil
	},
}
