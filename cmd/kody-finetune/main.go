// Package main is the entry point for the kody-finetune CLI.
package main

import (
	"fmt"
	"os"

	"github.com/kodustech/kody-finetune/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kody-finetune",
		Short: "Feedback-driven suggestion filter for automated code review",
		Long: `kody-finetune clusters historical code-review suggestions by the feedback
they received and gates new suggestions against those clusters. Suggestions
resembling consistently rejected ones are filtered out; everything uncertain
is delivered.`,
	}

	cmd.AddCommand(syncCmd())
	cmd.AddCommand(analyzeCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
