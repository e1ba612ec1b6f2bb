package persistence

import (
	"context"
	"fmt"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/internal/database"
	"gorm.io/gorm/clause"
)

// SuggestionStore is a GORM-backed implementation of review.SuggestionStore.
type SuggestionStore struct {
	db   database.Database
	repo database.Repository[review.Suggestion, SuggestionModel]
}

// NewSuggestionStore creates a SuggestionStore.
func NewSuggestionStore(db database.Database) SuggestionStore {
	return SuggestionStore{
		db:   db,
		repo: database.NewRepository(db, suggestionMapper{}, "suggestion"),
	}
}

// Save upserts suggestion records keyed by suggestion id.
func (s SuggestionStore) Save(ctx context.Context, suggestions []review.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	models := make([]SuggestionModel, len(suggestions))
	for i, sg := range suggestions {
		models[i] = suggestionMapper{}.ToModel(sg)
	}
	result := s.db.Session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "suggestion_id"}},
			UpdateAll: true,
		}).
		Create(&models)
	if result.Error != nil {
		return fmt.Errorf("save suggestions: %w", result.Error)
	}
	return nil
}

// Find retrieves suggestions matching the given options.
func (s SuggestionStore) Find(ctx context.Context, options ...repository.Option) ([]review.Suggestion, error) {
	return s.repo.Find(ctx, options...)
}

// MarkSynced updates the synced flag on matching records.
func (s SuggestionStore) MarkSynced(ctx context.Context, synced bool, options ...repository.Option) error {
	db := database.ApplyConditions(s.db.Session(ctx).Model(&SuggestionModel{}), options...)
	if result := db.Update("synced", synced); result.Error != nil {
		return fmt.Errorf("mark suggestions synced: %w", result.Error)
	}
	return nil
}
