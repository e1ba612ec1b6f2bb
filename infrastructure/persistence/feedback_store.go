package persistence

import (
	"context"
	"fmt"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/internal/database"
	"gorm.io/gorm/clause"
)

// FeedbackStore is a GORM-backed implementation of review.FeedbackStore.
type FeedbackStore struct {
	db   database.Database
	repo database.Repository[review.Feedback, FeedbackModel]
}

// NewFeedbackStore creates a FeedbackStore.
func NewFeedbackStore(db database.Database) FeedbackStore {
	return FeedbackStore{
		db:   db,
		repo: database.NewRepository(db, feedbackMapper{}, "feedback"),
	}
}

// Save upserts feedback records keyed by suggestion id.
func (s FeedbackStore) Save(ctx context.Context, feedback []review.Feedback) error {
	if len(feedback) == 0 {
		return nil
	}
	models := make([]FeedbackModel, len(feedback))
	for i, f := range feedback {
		models[i] = feedbackMapper{}.ToModel(f)
	}
	result := s.db.Session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "suggestion_id"}},
			UpdateAll: true,
		}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("save feedback: %w", result.Error)
	}
	return nil
}

// Find retrieves feedback matching the given options.
func (s FeedbackStore) Find(ctx context.Context, options ...repository.Option) ([]review.Feedback, error) {
	return s.repo.Find(ctx, options...)
}

// MarkSynced updates the synced flag on matching records.
func (s FeedbackStore) MarkSynced(ctx context.Context, synced bool, options ...repository.Option) error {
	db := database.ApplyConditions(s.db.Session(ctx).Model(&FeedbackModel{}), options...)
	if result := db.Update("synced", synced); result.Error != nil {
		return fmt.Errorf("mark feedback synced: %w", result.Error)
	}
	return nil
}
