package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/domain/tuning"
	"github.com/kodustech/kody-finetune/infrastructure/persistence"
	"github.com/kodustech/kody-finetune/internal/testdb"
)

func embeddedSuggestion(id, repoID, language string, ft review.FeedbackType, vector []float64) tuning.EmbeddedSuggestion {
	repo := review.NewRepositoryRef(repoID, "kodus/"+repoID)
	s := review.NewSuggestion(id, "org-1", repo, 3, language,
		"Use prepared statements", "security", "high")
	return tuning.NewEmbeddedSuggestion(s, ft, vector)
}

func TestEmbeddingStore_SaveAllAndFind(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewEmbeddingStore(db)
	ctx := context.Background()

	vector := []float64{0.125, -0.5, 0.75}
	err := store.SaveAll(ctx, []tuning.EmbeddedSuggestion{
		embeddedSuggestion("s1", "repo-1", "go", review.FeedbackPositive, vector),
		embeddedSuggestion("s2", "repo-2", "go", review.FeedbackNegative, []float64{1, 0, 0}),
	})
	require.NoError(t, err)

	found, err := store.Find(ctx,
		repository.WithOrganizationID("org-1"),
		repository.WithRepositoryID("repo-1"),
		repository.WithLanguage("go"),
	)
	require.NoError(t, err)
	require.Len(t, found, 1)

	got := found[0]
	assert.Equal(t, "s1", got.Suggestion().ID())
	assert.Equal(t, review.FeedbackPositive, got.FeedbackType())
	assert.Equal(t, vector, got.Vector())
	assert.Equal(t, 3, got.Dimension())
}

func TestEmbeddingStore_SaveAllUpserts(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewEmbeddingStore(db)
	ctx := context.Background()

	first := embeddedSuggestion("s1", "repo-1", "go", review.FeedbackPositive, []float64{1, 0})
	require.NoError(t, store.SaveAll(ctx, []tuning.EmbeddedSuggestion{first}))

	updated := embeddedSuggestion("s1", "repo-1", "go", review.FeedbackNegative, []float64{0, 1})
	require.NoError(t, store.SaveAll(ctx, []tuning.EmbeddedSuggestion{updated}))

	found, err := store.Find(ctx, repository.WithSuggestionID("s1"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, review.FeedbackNegative, found[0].FeedbackType())
	assert.Equal(t, []float64{0, 1}, found[0].Vector())
}

func TestEmbeddingStore_CountByScope(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewEmbeddingStore(db)
	ctx := context.Background()

	err := store.SaveAll(ctx, []tuning.EmbeddedSuggestion{
		embeddedSuggestion("s1", "repo-1", "go", review.FeedbackPositive, []float64{1, 0}),
		embeddedSuggestion("s2", "repo-1", "go", review.FeedbackNegative, []float64{0, 1}),
		embeddedSuggestion("s3", "repo-2", "go", review.FeedbackPositive, []float64{1, 1}),
		embeddedSuggestion("s4", "repo-1", "typescript", review.FeedbackPositive, []float64{1, 1}),
	})
	require.NoError(t, err)

	repoCount, err := store.Count(ctx,
		repository.WithOrganizationID("org-1"),
		repository.WithRepositoryID("repo-1"),
		repository.WithLanguage("go"),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), repoCount)

	orgCount, err := store.Count(ctx,
		repository.WithOrganizationID("org-1"),
		repository.WithLanguage("go"),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(3), orgCount)
}

func TestEmbeddingStore_EmptySave(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewEmbeddingStore(db)

	assert.NoError(t, store.SaveAll(context.Background(), nil))
}
