package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/content-pilot/internal/config"
	"github.com/jonathan/content-pilot/internal/db"
	"github.com/jonathan/content-pilot/internal/notify"
	"github.com/jonathan/content-pilot/internal/observability"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one goal-reminder sweep",
	Long:  "Finds accounts whose next generation is due within a day and asks them for this week's goal. Same sweep the cron endpoint triggers.",
	RunE:  runRemind,
}

func init() {
	rootCmd.AddCommand(remindCmd)
}

func runRemind(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	var notifier *notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewNotifier(notify.NewEmailSender(emailConfig(cfg)), cfg.AppURL)
	}

	reminder := notify.NewReminder(
		database,
		notifier,
		observability.NewLoggerWithComponent("reminder"),
	)

	summary, err := reminder.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Reminded %d accounts, %d failed\n", summary.Reminded, summary.Failed)
	return nil
}
