package tuning

import (
	"context"

	"github.com/kodustech/kody-finetune/domain/repository"
)

// EmbeddingStore defines persistence operations for embedded suggestions.
type EmbeddingStore interface {
	// SaveAll persists embedded suggestions.
	SaveAll(ctx context.Context, embedded []EmbeddedSuggestion) error

	// Find retrieves embedded suggestions matching the given options.
	Find(ctx context.Context, options ...repository.Option) ([]EmbeddedSuggestion, error)

	// Count returns the number of embedded suggestions matching the options.
	Count(ctx context.Context, options ...repository.Option) (int64, error)
}

// SyncCommitter atomically persists embedded suggestions and flips the
// synced flag on the source suggestion and feedback records.
type SyncCommitter interface {
	Commit(ctx context.Context, embedded []EmbeddedSuggestion, suggestionIDs []string) error
}
