package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodustech/kody-finetune/domain/repository"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/kodustech/kody-finetune/infrastructure/persistence"
	"github.com/kodustech/kody-finetune/internal/testdb"
)

func TestFeedbackStore_SaveAndFind(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewFeedbackStore(db)
	ctx := context.Background()

	err := store.Save(ctx, []review.Feedback{
		review.NewFeedback("s1", 3, 1, false),
		review.NewFeedback("s2", 0, 0, true),
	})
	require.NoError(t, err)

	found, err := store.Find(ctx, repository.WithSuggestionID("s1"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].ThumbsUp())
	assert.Equal(t, 1, found[0].ThumbsDown())
	assert.False(t, found[0].Implemented())

	implemented, err := store.Find(ctx, repository.WithSuggestionID("s2"))
	require.NoError(t, err)
	require.Len(t, implemented, 1)
	assert.True(t, implemented[0].Implemented())
}

func TestFeedbackStore_SaveUpserts(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewFeedbackStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []review.Feedback{review.NewFeedback("s1", 1, 0, false)}))
	require.NoError(t, store.Save(ctx, []review.Feedback{review.NewFeedback("s1", 4, 2, false)}))

	found, err := store.Find(ctx, repository.WithSuggestionID("s1"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 4, found[0].ThumbsUp())
	assert.Equal(t, 2, found[0].ThumbsDown())
}

func TestFeedbackStore_MarkSynced(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewFeedbackStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []review.Feedback{
		review.NewFeedback("s1", 1, 0, false),
		review.NewFeedback("s2", 0, 1, false),
	}))

	require.NoError(t, store.MarkSynced(ctx, true, repository.WithSuggestionIDIn([]string{"s1"})))

	unsynced, err := store.Find(ctx, repository.WithSynced(false))
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, "s2", unsynced[0].SuggestionID())
}
