// Command casedb maintains the case diary database: initialize it, create
// users, move cases in and out of spreadsheets and attach documents.
package main

import (
	"fmt"
	"log"
	"os"

	"advocate_diary_go/config"
	"advocate_diary_go/db"

	"github.com/spf13/cobra"
)

var (
	// dbPath overrides DB_PATH when set by --db
	dbPath string

	cfg     *config.Config
	manager *db.Manager
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "casedb",
	Short: "Maintain the advocate diary database",
	Long: `casedb opens the advocate diary database (creating and seeding it on
first use) and runs maintenance tasks against it.`,
	SilenceUsage:      true,
	PersistentPreRunE: openDatabase,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if manager == nil {
			return nil
		}
		return manager.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default: DB_PATH or "+config.DefaultDBPath+")")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(attachCmd)
}

func openDatabase(cmd *cobra.Command, args []string) error {
	cfg = config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	manager = db.NewManagerFromConfig(cfg)
	if err := manager.Open(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the schema and seed the default lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conn, err := manager.Conn(ctx)
		if err != nil {
			return err
		}
		version, err := db.SchemaVersion(ctx, conn)
		if err != nil {
			return err
		}
		log.Printf("[DB] Database ready at %s (schema version %d)", cfg.DBPath, version)
		return nil
	},
}
