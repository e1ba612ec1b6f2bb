package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "KODY"

// EnvConfig holds all environment-based configuration. Field names map to
// environment variables with the KODY_ prefix (e.g. KODY_DB_URL).
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: KODY_DATA_DIR (default: ~/.kody-finetune)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: KODY_DB_URL
	// Default: sqlite:///{data_dir}/finetune.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: KODY_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: KODY_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// EmbeddingEndpoint configures the remote embedding service. When no
	// model is set the local ONNX embedder is used.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`

	// HTTPCacheDir is the directory for caching HTTP responses to disk.
	// When set, POST request/response pairs are cached to avoid repeated
	// embedding API calls.
	// Env: KODY_HTTP_CACHE_DIR
	HTTPCacheDir string `envconfig:"HTTP_CACHE_DIR"`

	// ThresholdsFile is an optional YAML file with tuning-parameter
	// overrides.
	// Env: KODY_THRESHOLDS_FILE
	ThresholdsFile string `envconfig:"THRESHOLDS_FILE"`

	// Thresholds holds per-parameter overrides; unset values fall back to
	// the built-in defaults (file values apply first, env wins).
	Thresholds ThresholdsEnv `envconfig:"THRESHOLDS"`
}

// EndpointEnv holds environment configuration for the embedding endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: KODY_EMBEDDING_ENDPOINT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier (e.g. text-embedding-3-small).
	// Env: KODY_EMBEDDING_ENDPOINT_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: KODY_EMBEDDING_ENDPOINT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: KODY_EMBEDDING_ENDPOINT_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: KODY_EMBEDDING_ENDPOINT_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: KODY_EMBEDDING_ENDPOINT_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: KODY_EMBEDDING_ENDPOINT_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// ThresholdsEnv holds environment overrides for tuning parameters.
// Zero values mean "not set".
type ThresholdsEnv struct {
	// Env: KODY_THRESHOLDS_POSITIVE
	Positive float64 `envconfig:"POSITIVE"`

	// Env: KODY_THRESHOLDS_NEGATIVE
	Negative float64 `envconfig:"NEGATIVE"`

	// Env: KODY_THRESHOLDS_CLUSTER_MATCH
	ClusterMatch float64 `envconfig:"CLUSTER_MATCH"`

	// Env: KODY_THRESHOLDS_MAX_CLUSTERS
	MaxClusters int `envconfig:"MAX_CLUSTERS"`

	// Env: KODY_THRESHOLDS_CLUSTER_DIVISOR
	ClusterDivisor int `envconfig:"CLUSTER_DIVISOR"`

	// Env: KODY_THRESHOLDS_KMEANS_ITERATIONS
	Iterations int `envconfig:"KMEANS_ITERATIONS"`
}

// LoadFromEnv loads configuration from environment variables with the KODY
// prefix.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix(EnvPrefix)
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.EmbeddingEndpoint.IsConfigured() {
		cfg = cfg.Apply(WithEmbeddingEndpoint(e.EmbeddingEndpoint.ToEndpoint()))
	}
	if e.HTTPCacheDir != "" {
		cfg = cfg.Apply(WithHTTPCacheDir(e.HTTPCacheDir))
	}
	if e.ThresholdsFile != "" {
		cfg = cfg.Apply(WithThresholdsFile(e.ThresholdsFile))
	}
	cfg = cfg.Apply(WithThresholdOverrides(e.Thresholds.ToOverrides()))

	return cfg
}

// IsConfigured returns true if the endpoint has a model configured.
func (e EndpointEnv) IsConfigured() bool {
	return e.Model != ""
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithModel(e.Model),
		WithTimeout(time.Duration(e.Timeout * float64(time.Second))),
		WithMaxRetries(e.MaxRetries),
		WithInitialDelay(time.Duration(e.InitialDelay * float64(time.Second))),
		WithBackoffFactor(e.BackoffFactor),
	}

	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}

	return NewEndpointWithOptions(opts...)
}

// ToOverrides converts ThresholdsEnv to ThresholdOverrides.
func (t ThresholdsEnv) ToOverrides() ThresholdOverrides {
	return ThresholdOverrides{
		Positive:       t.Positive,
		Negative:       t.Negative,
		ClusterMatch:   t.ClusterMatch,
		MaxClusters:    t.MaxClusters,
		ClusterDivisor: t.ClusterDivisor,
		Iterations:     t.Iterations,
	}
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
