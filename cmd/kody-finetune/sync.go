package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kodyfinetune "github.com/kodustech/kody-finetune"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var (
		envFile string
		orgID   string
		repoIDs []string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull closed-PR suggestions and feedback into the embedding store",
		Long: `Pull unsynced suggestions from closed pull requests, classify the feedback
they received, embed the survivors, and mark the records synced.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables

Environment variables:
  KODY_DATA_DIR                Data directory (default: ~/.kody-finetune)
  KODY_DB_URL                  Database URL (default: sqlite:///{data_dir}/finetune.db)
  KODY_LOG_LEVEL               Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  KODY_LOG_FORMAT              Log format: pretty, json (default: pretty)

  KODY_EMBEDDING_ENDPOINT_*    Embedding service configuration
    BASE_URL                   Base URL (e.g. https://api.openai.com/v1)
    MODEL                      Model identifier (e.g. text-embedding-3-small)
    API_KEY                    API key for authentication
    TIMEOUT                    Request timeout in seconds (default: 60)
    MAX_RETRIES                Retry attempts (default: 5)

  KODY_HTTP_CACHE_DIR          Cache embedding API responses on disk
  KODY_THRESHOLDS_FILE         YAML file with tuning-parameter overrides
  KODY_THRESHOLDS_*            Per-parameter overrides (POSITIVE, NEGATIVE,
                               CLUSTER_MATCH, MAX_CLUSTERS, CLUSTER_DIVISOR,
                               KMEANS_ITERATIONS)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(envFile, orgID, repoIDs)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&orgID, "org", "", "Organization id (required)")
	cmd.Flags().StringSliceVar(&repoIDs, "repo", nil, "Repository id (repeatable, required)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}

func runSync(envFile, orgID string, repoIDs []string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	opts, err := clientOptions(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := kodyfinetune.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	results := client.Sync.SyncOrganization(ctx, orgID, repoIDs)
	for repoID, result := range results {
		fmt.Printf("%s: fetched=%d embedded=%d neutral=%d excluded=%d\n",
			repoID, result.Fetched(), result.Embedded(), result.Neutral(), result.Excluded())
	}
	return nil
}
