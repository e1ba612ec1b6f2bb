package persistence

import (
	"context"
	"fmt"

	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncCommitter persists a sync pass atomically: embedding rows are written
// and the source suggestion and feedback records are flagged synced in one
// transaction, so a crash cannot leave records consumed but unembedded.
type SyncCommitter struct {
	db database.Database
}

// NewSyncCommitter creates a SyncCommitter.
func NewSyncCommitter(db database.Database) SyncCommitter {
	return SyncCommitter{db: db}
}

// Commit implements tuning.SyncCommitter.
func (c SyncCommitter) Commit(ctx context.Context, embedded []tuning.EmbeddedSuggestion, suggestionIDs []string) error {
	return database.WithTransaction(ctx, c.db, func(tx *gorm.DB) error {
		if err := c.saveEmbeddings(tx, embedded); err != nil {
			return err
		}

		if len(suggestionIDs) == 0 {
			return nil
		}

		if err := tx.Model(&SuggestionModel{}).
			Where("suggestion_id IN ?", suggestionIDs).
			Update("synced", true).Error; err != nil {
			return fmt.Errorf("mark suggestions synced: %w", err)
		}

		if err := tx.Model(&FeedbackModel{}).
			Where("suggestion_id IN ?", suggestionIDs).
			Update("synced", true).Error; err != nil {
			return fmt.Errorf("mark feedback synced: %w", err)
		}

		return nil
	})
}

func (c SyncCommitter) saveEmbeddings(tx *gorm.DB, embedded []tuning.EmbeddedSuggestion) error {
	if len(embedded) == 0 {
		return nil
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "suggestion_id"}},
		UpdateAll: true,
	}

	if c.db.IsPostgres() {
		models := make([]PgEmbeddingModel, len(embedded))
		for i, e := range embedded {
			models[i] = pgEmbeddingMapper{}.ToModel(e)
		}
		if err := tx.Clauses(onConflict).Create(&models).Error; err != nil {
			return fmt.Errorf("save embeddings: %w", err)
		}
		return nil
	}

	models := make([]SQLiteEmbeddingModel, len(embedded))
	for i, e := range embedded {
		models[i] = sqliteEmbeddingMapper{}.ToModel(e)
	}
	if err := tx.Clauses(onConflict).Create(&models).Error; err != nil {
		return fmt.Errorf("save embeddings: %w", err)
	}
	return nil
}

var _ tuning.SyncCommitter = SyncCommitter{}
