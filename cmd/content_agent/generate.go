package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/content-pilot/internal/config"
	"github.com/jonathan/content-pilot/internal/content"
	"github.com/jonathan/content-pilot/internal/db"
	"github.com/jonathan/content-pilot/internal/generation"
	"github.com/jonathan/content-pilot/internal/llm"
	"github.com/jonathan/content-pilot/internal/notify"
	"github.com/jonathan/content-pilot/internal/observability"
	"github.com/jonathan/content-pilot/internal/strategy"
)

var (
	generateAccountID string
	generateGoal      string
	generateContext   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one weekly generation for an account",
	Long:  "Generates a full week of scheduled posts for the account: schedule strategy, post content, concrete publish dates. Same path the API uses.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateAccountID, "account-id", "a", "", "Account ID (required)")
	generateCmd.Flags().StringVarP(&generateGoal, "goal", "g", "", "Weekly goal (recruiting, fundraising, sales, credibility, growth, balanced)")
	generateCmd.Flags().StringVar(&generateContext, "context", "", "Free-text context for this week's goal")

	if err := generateCmd.MarkFlagRequired("account-id"); err != nil {
		panic(fmt.Sprintf("failed to mark account-id flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	accountID, err := uuid.Parse(generateAccountID)
	if err != nil {
		return fmt.Errorf("invalid account-id: %w", err)
	}

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

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = llmClient.Close() }()

	var notifier generation.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewNotifier(notify.NewEmailSender(emailConfig(cfg)), cfg.AppURL)
	}

	orchestrator := generation.NewOrchestrator(
		database,
		strategy.NewGenerator(llmClient),
		content.NewGenerator(llmClient),
		notifier,
		observability.NewLoggerWithComponent("generation"),
	)

	result, err := orchestrator.Start(ctx, accountID, generateGoal, generateContext)
	if err != nil {
		return err
	}

	fmt.Printf("Generation %s completed: week %d, %d X posts, %d LinkedIn posts\n",
		result.GenerationID, result.WeekNumber, result.XPostsCount, result.LinkedInPostsCount)
	return nil
}
