package persistence

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/internal/database"
	"gorm.io/gorm/clause"
)

// Float64Slice is a custom type for JSON serialization of []float64 in SQLite.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON from SQLite.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON to SQLite.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// EmbeddingColumns holds the backend-independent columns of an embedded
// suggestion row.
type EmbeddingColumns struct {
	SuggestionID   string `gorm:"column:suggestion_id;uniqueIndex"`
	OrganizationID string `gorm:"column:organization_id;index:idx_embeddings_scope"`
	RepositoryID   string `gorm:"column:repository_id;index:idx_embeddings_scope"`
	RepositoryName string `gorm:"column:repository_name"`
	PRNumber       int    `gorm:"column:pr_number"`
	Language       string `gorm:"column:language;index:idx_embeddings_scope"`
	Content        string `gorm:"column:content"`
	Label          string `gorm:"column:label"`
	Severity       string `gorm:"column:severity"`
	FeedbackType   string `gorm:"column:feedback_type"`
}

func columnsFor(e tuning.EmbeddedSuggestion) EmbeddingColumns {
	s := e.Suggestion()
	return EmbeddingColumns{
		SuggestionID:   s.ID(),
		OrganizationID: s.OrganizationID(),
		RepositoryID:   s.Repository().ID(),
		RepositoryName: s.Repository().FullName(),
		PRNumber:       s.PullRequestNumber(),
		Language:       s.Language(),
		Content:        s.Content(),
		Label:          s.Label(),
		Severity:       s.Severity(),
		FeedbackType:   string(e.FeedbackType()),
	}
}

func (c EmbeddingColumns) toDomain(vector []float64) tuning.EmbeddedSuggestion {
	repo := review.NewRepositoryRef(c.RepositoryID, c.RepositoryName)
	s := review.NewSuggestion(
		c.SuggestionID,
		c.OrganizationID,
		repo,
		c.PRNumber,
		c.Language,
		c.Content,
		c.Label,
		c.Severity,
	)
	return tuning.NewEmbeddedSuggestion(s, review.FeedbackType(c.FeedbackType), vector)
}

// PgEmbeddingModel represents an embedded suggestion in PostgreSQL using a
// native vector column.
type PgEmbeddingModel struct {
	ID               int64 `gorm:"column:id;primaryKey;autoIncrement"`
	EmbeddingColumns `gorm:"embedded"`
	Embedding        database.PgVector `gorm:"column:embedding;type:vector"`
}

// TableName sets the table name for PgEmbeddingModel.
func (PgEmbeddingModel) TableName() string { return "suggestion_embeddings" }

type pgEmbeddingMapper struct{}

func (pgEmbeddingMapper) ToDomain(entity PgEmbeddingModel) tuning.EmbeddedSuggestion {
	return entity.EmbeddingColumns.toDomain(entity.Embedding.Floats())
}

func (pgEmbeddingMapper) ToModel(domain tuning.EmbeddedSuggestion) PgEmbeddingModel {
	return PgEmbeddingModel{
		EmbeddingColumns: columnsFor(domain),
		Embedding:        database.NewPgVector(domain.Vector()),
	}
}

// SQLiteEmbeddingModel represents an embedded suggestion in SQLite using a
// JSON column for the vector.
type SQLiteEmbeddingModel struct {
	ID               int64 `gorm:"column:id;primaryKey;autoIncrement"`
	EmbeddingColumns `gorm:"embedded"`
	Embedding        Float64Slice `gorm:"column:embedding;type:json"`
}

// TableName sets the table name for SQLiteEmbeddingModel.
func (SQLiteEmbeddingModel) TableName() string { return "suggestion_embeddings" }

type sqliteEmbeddingMapper struct{}

func (sqliteEmbeddingMapper) ToDomain(entity SQLiteEmbeddingModel) tuning.EmbeddedSuggestion {
	return entity.EmbeddingColumns.toDomain([]float64(entity.Embedding))
}

func (sqliteEmbeddingMapper) ToModel(domain tuning.EmbeddedSuggestion) SQLiteEmbeddingModel {
	return SQLiteEmbeddingModel{
		EmbeddingColumns: columnsFor(domain),
		Embedding:        Float64Slice(domain.Vector()),
	}
}

// EmbeddingStore is a GORM-backed implementation of tuning.EmbeddingStore.
// It uses a native vector column on PostgreSQL and a JSON column on SQLite.
type EmbeddingStore struct {
	db database.Database
}

// NewEmbeddingStore creates an EmbeddingStore for the database's backend.
func NewEmbeddingStore(db database.Database) EmbeddingStore {
	return EmbeddingStore{db: db}
}

// SaveAll upserts embedded suggestions keyed by suggestion id.
func (s EmbeddingStore) SaveAll(ctx context.Context, embedded []tuning.EmbeddedSuggestion) error {
	if len(embedded) == 0 {
		return nil
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "suggestion_id"}},
		UpdateAll: true,
	}

	if s.db.IsPostgres() {
		models := make([]PgEmbeddingModel, len(embedded))
		for i, e := range embedded {
			models[i] = pgEmbeddingMapper{}.ToModel(e)
		}
		if result := s.db.Session(ctx).Clauses(onConflict).Create(&models); result.Error != nil {
			return fmt.Errorf("save embeddings: %w", result.Error)
		}
		return nil
	}

	models := make([]SQLiteEmbeddingModel, len(embedded))
	for i, e := range embedded {
		models[i] = sqliteEmbeddingMapper{}.ToModel(e)
	}
	if result := s.db.Session(ctx).Clauses(onConflict).Create(&models); result.Error != nil {
		return fmt.Errorf("save embeddings: %w", result.Error)
	}
	return nil
}

// Find retrieves embedded suggestions matching the given options.
func (s EmbeddingStore) Find(ctx context.Context, options ...repository.Option) ([]tuning.EmbeddedSuggestion, error) {
	if s.db.IsPostgres() {
		repo := database.NewRepository(s.db, pgEmbeddingMapper{}, "embedding")
		return repo.Find(ctx, options...)
	}
	repo := database.NewRepository(s.db, sqliteEmbeddingMapper{}, "embedding")
	return repo.Find(ctx, options...)
}

// Count returns the number of embedded suggestions matching the options.
func (s EmbeddingStore) Count(ctx context.Context, options ...repository.Option) (int64, error) {
	if s.db.IsPostgres() {
		repo := database.NewRepository(s.db, pgEmbeddingMapper{}, "embedding")
		return repo.Count(ctx, options...)
	}
	repo := database.NewRepository(s.db, sqliteEmbeddingMapper{}, "embedding")
	return repo.Count(ctx, options...)
}
