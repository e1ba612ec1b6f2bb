// Package persistence provides database storage implementations.
package persistence

import (
	"fmt"

	"github.com/kodustech/kody-finetune/internal/database"
)

// AutoMigrate runs GORM auto migration for all models. The embedding table
// schema differs per backend: a native vector column on PostgreSQL, a JSON
// column on SQLite.
func AutoMigrate(db database.Database) error {
	models := []any{
		&SuggestionModel{},
		&FeedbackModel{},
	}
	if db.IsPostgres() {
		if err := db.GORM().Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
			return fmt.Errorf("create vector extension: %w", err)
		}
		models = append(models, &PgEmbeddingModel{})
	} else {
		models = append(models, &SQLiteEmbeddingModel{})
	}

	if err := db.GORM().AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
