package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/content-pilot/internal/config"
	"github.com/jonathan/content-pilot/internal/db"
	"github.com/jonathan/content-pilot/internal/observability"
	"github.com/jonathan/content-pilot/internal/publisher"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run one publishing sweep",
	Long:  "Claims all posts whose scheduled time has passed and publishes them to their platforms. Same sweep the cron endpoint triggers.",
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(_ *cobra.Command, _ []string) error {
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

	runner := publisher.NewRunner(
		database,
		publisher.Adapters(),
		observability.NewLoggerWithComponent("publisher"),
	)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d posts: %d published, %d failed\n",
		summary.Processed, summary.Published, summary.Failed)
	return nil
}
