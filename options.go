package kodyfinetune

import (
	"io"

	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/infrastructure/provider"
	"github.com/kodustech/kody-finetune/internal/config"
	"github.com/kodustech/kody-finetune/internal/log"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL             string
	dataDir           string
	modelDir          string
	embeddingProvider provider.Embedder
	thresholds        *tuning.Thresholds
	prState           review.PullRequestState
	seed              *int64
	logger            *log.Logger
	closers           []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	appCfg := config.NewAppConfig()
	return &clientConfig{
		dbURL:   appCfg.DBURL(),
		dataDir: appCfg.DataDir(),
		prState: review.PullRequestClosed,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithDatabaseURL configures the database from a URL
// (sqlite:///path or postgres://...).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithDataDir sets the data directory for model and cache files.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithOpenAI configures OpenAI as the embedding provider.
func WithOpenAI(apiKey string, opts ...provider.OpenAIOption) Option {
	return func(c *clientConfig) {
		p := provider.NewOpenAIProvider(apiKey, opts...)
		c.embeddingProvider = p
		c.closers = append(c.closers, p)
	}
}

// WithOpenAIConfig configures an OpenAI-compatible embedding endpoint.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		p := provider.NewOpenAIProviderFromConfig(cfg)
		c.embeddingProvider = p
		c.closers = append(c.closers, p)
	}
}

// WithEmbeddingProvider sets a custom embedding provider.
func WithEmbeddingProvider(p provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = p
	}
}

// WithLocalEmbedder configures the local ONNX embedding model, looking for
// model files under dir.
func WithLocalEmbedder(dir string) Option {
	return func(c *clientConfig) {
		c.modelDir = dir
	}
}

// WithThresholds sets the tuning parameters.
func WithThresholds(t tuning.Thresholds) Option {
	return func(c *clientConfig) {
		c.thresholds = &t
	}
}

// WithPullRequestState sets the PR state suggestions must reach before they
// are synced (default closed).
func WithPullRequestState(state review.PullRequestState) Option {
	return func(c *clientConfig) {
		c.prState = state
	}
}

// WithClusterSeed fixes the k-means RNG seed for reproducible runs.
func WithClusterSeed(seed int64) Option {
	return func(c *clientConfig) {
		c.seed = &seed
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithAppConfig applies settings from an AppConfig (as loaded from the
// environment by internal/config).
func WithAppConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.dbURL = cfg.DBURL()
		c.dataDir = cfg.DataDir()
		if c.modelDir == "" {
			c.modelDir = cfg.ModelCacheDir()
		}
	}
}
