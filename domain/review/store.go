package review

import (
	"context"

	"github.com/kodustech/kody-finetune/domain/repository"
)

// SuggestionStore defines persistence operations for suggestion records.
type SuggestionStore interface {
	// Save persists suggestion records.
	Save(ctx context.Context, suggestions []Suggestion) error

	// Find retrieves suggestions matching the given options.
	Find(ctx context.Context, options ...repository.Option) ([]Suggestion, error)

	// MarkSynced updates the synced flag on matching records.
	MarkSynced(ctx context.Context, synced bool, options ...repository.Option) error
}

// FeedbackStore defines persistence operations for feedback records.
type FeedbackStore interface {
	// Save persists feedback records.
	Save(ctx context.Context, feedback []Feedback) error

	// Find retrieves feedback matching the given options.
	Find(ctx context.Context, options ...repository.Option) ([]Feedback, error)

	// MarkSynced updates the synced flag on matching records.
	MarkSynced(ctx context.Context, synced bool, options ...repository.Option) error
}
