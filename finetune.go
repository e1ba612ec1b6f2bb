// Package kodyfinetune filters automated code-review suggestions using
// historical developer feedback.
//
// The engine embeds past suggestions together with the reactions they
// received, clusters them per organization, repository, and language, and
// gates each newly generated suggestion against the clusters: keep, discard,
// or uncertain. Uncertainty always resolves to delivery.
//
// Basic usage:
//
//	client, err := kodyfinetune.New(
//	    kodyfinetune.WithSQLite(".kody/finetune.db"),
//	    kodyfinetune.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Pull closed-PR suggestions and feedback into the embedding store.
//	client.Sync.SyncRepository(ctx, orgID, repoID)
//
//	// Gate a batch of new suggestions.
//	result := client.Analysis.Run(ctx, suggestions)
//	for _, s := range result.Kept() {
//	    deliver(s)
//	}
package kodyfinetune

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/kodustech/kody-finetune/application/service"
	"github.com/kodustech/kody-finetune/domain/review"
	domainservice "github.com/kodustech/kody-finetune/domain/service"
	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/infrastructure/persistence"
	"github.com/kodustech/kody-finetune/infrastructure/provider"
	"github.com/kodustech/kody-finetune/internal/database"
	"github.com/kodustech/kody-finetune/internal/log"
)

// ErrNoEmbedder indicates no embedding provider was configured and no local
// model is available.
var ErrNoEmbedder = errors.New("finetune: no embedding provider configured")

// Client is the main entry point for the fine-tuning library.
//
// Access operations via struct fields:
//
//	client.Sync.SyncRepository(ctx, orgID, repoID)
//	client.Analysis.Run(ctx, suggestions)
type Client struct {
	// Sync pulls suggestions and feedback into the embedding store.
	Sync *service.Sync

	// Analysis gates new suggestions against the clustered history.
	Analysis *service.Analysis

	// Suggestions and Feedback are the ingest stores the review pipeline
	// writes raw records into.
	Suggestions review.SuggestionStore
	Feedback    review.FeedbackStore

	db      database.Database
	logger  *log.Logger
	closers []io.Closer
	closed  atomic.Bool
}

// New creates a Client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.Default()
	}

	db, err := database.NewDatabase(ctx, cfg.dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	embedder, err := resolveEmbedder(cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	thresholds := tuning.NewThresholds()
	if cfg.thresholds != nil {
		thresholds = *cfg.thresholds
	}

	clustererOpts := []domainservice.KMeansOption{domainservice.WithClusterLogger(logger)}
	if cfg.seed != nil {
		clustererOpts = append(clustererOpts, domainservice.WithSeed(*cfg.seed))
	}
	clusterer := domainservice.NewKMeans(thresholds, clustererOpts...)

	suggestions := persistence.NewSuggestionStore(db)
	feedback := persistence.NewFeedbackStore(db)
	embeddings := persistence.NewEmbeddingStore(db)
	committer := persistence.NewSyncCommitter(db)

	sync := service.NewSync(suggestions, feedback, committer, embedder,
		service.WithPullRequestState(cfg.prState),
		service.WithSyncLogger(logger),
	)
	analysis := service.NewAnalysis(embeddings, embedder, clusterer, thresholds,
		service.WithAnalysisLogger(logger),
	)

	return &Client{
		Sync:        sync,
		Analysis:    analysis,
		Suggestions: suggestions,
		Feedback:    feedback,
		db:          db,
		logger:      logger,
		closers:     cfg.closers,
	}, nil
}

// resolveEmbedder picks the configured provider, falling back to the local
// ONNX model when a model directory is set.
func resolveEmbedder(cfg *clientConfig) (tuning.Embedder, error) {
	if cfg.embeddingProvider != nil {
		return provider.NewTextEmbedder(cfg.embeddingProvider), nil
	}

	if cfg.modelDir != "" {
		local := provider.NewHugotEmbedding(cfg.modelDir)
		if !local.Available() {
			return nil, fmt.Errorf("%w: no model files in %s", ErrNoEmbedder, cfg.modelDir)
		}
		return provider.NewTextEmbedder(local), nil
	}

	return nil, ErrNoEmbedder
}

// DB exposes the underlying database for migrations and tests.
func (c *Client) DB() database.Database {
	return c.db
}

// Close releases the database connection and any provider resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return service.ErrClientClosed
	}

	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
