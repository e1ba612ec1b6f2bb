package main

import (
	"fmt"

	kodyfinetune "github.com/kodustech/kody-finetune"
	"github.com/kodustech/kody-finetune/infrastructure/provider"
	"github.com/kodustech/kody-finetune/internal/config"
	"github.com/kodustech/kody-finetune/internal/log"
)

// clientOptions derives the kodyfinetune.Option slice from AppConfig:
// database, embedding provider, thresholds, and logging.
func clientOptions(cfg config.AppConfig) ([]kodyfinetune.Option, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	logger := log.NewLogger(logFormat(cfg), cfg.LogLevel())
	logger.SetDefault()

	opts := []kodyfinetune.Option{
		kodyfinetune.WithAppConfig(cfg),
		kodyfinetune.WithLogger(logger),
	}

	if endpoint := cfg.EmbeddingEndpoint(); endpoint != nil && endpoint.IsConfigured() {
		opts = append(opts, kodyfinetune.WithOpenAIConfig(openAIConfig(cfg, *endpoint)))
	}

	thresholds, err := cfg.ResolveThresholds()
	if err != nil {
		return nil, fmt.Errorf("resolve thresholds: %w", err)
	}
	opts = append(opts, kodyfinetune.WithThresholds(thresholds))

	return opts, nil
}

func openAIConfig(cfg config.AppConfig, endpoint config.Endpoint) provider.OpenAIConfig {
	providerCfg := provider.OpenAIConfig{
		APIKey:         endpoint.APIKey(),
		BaseURL:        endpoint.BaseURL(),
		EmbeddingModel: endpoint.Model(),
		Timeout:        endpoint.Timeout(),
		MaxRetries:     endpoint.MaxRetries(),
		InitialDelay:   endpoint.InitialDelay(),
		BackoffFactor:  endpoint.BackoffFactor(),
	}
	if dir := cfg.HTTPCacheDir(); dir != "" {
		providerCfg.Transport = provider.NewCachingTransport(dir, nil)
	}
	return providerCfg
}

func logFormat(cfg config.AppConfig) log.Format {
	if cfg.LogFormat() == config.LogFormatJSON {
		return log.FormatJSON
	}
	return log.FormatPretty
}
