package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-pilot/internal/config"
	"github.com/jonathan/interview-pilot/internal/db"
	"github.com/jonathan/interview-pilot/internal/deletion"
	"github.com/jonathan/interview-pilot/internal/logger"
	"github.com/jonathan/interview-pilot/internal/mail"
	"github.com/jonathan/interview-pilot/internal/server"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Hard-delete accounts whose deletion grace period has elapsed",
	Long: `Run one account-deletion sweep against the database and print the report.
Intended to be invoked from cron as an alternative to the finalize HTTP endpoint.
Re-running after a partial failure only retries accounts that are still due.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	log, err := logger.New(true, false)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	database, err := db.Connect(cmd.Context(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	deletionConfig, err := config.NewDeletionConfig()
	if err != nil {
		return fmt.Errorf("failed to create deletion config: %w", err)
	}

	directory := server.NewDirectory(database, server.NewJWTService(jwtConfig))
	mailer := mail.NewSender(config.NewMailConfig(), log)
	manager := deletion.NewManager(directory, mailer, log, deletionConfig)

	report, err := manager.FinalizeDue(cmd.Context(), deletionConfig.CronSecret)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(out))

	if len(report.Errors) > 0 {
		return fmt.Errorf("sweep finished with %d per-user errors", len(report.Errors))
	}
	return nil
}
