// Package main provides the entry point for the Content Pilot service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "content_agent",
	Short: "Content Pilot generation and publishing service",
	Long:  "Content Pilot generates weekly social content schedules with an LLM, fills them with platform-ready posts, and publishes them to X and LinkedIn on schedule.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
