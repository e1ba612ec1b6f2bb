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

func TestSyncCommitter_Commit(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	suggestions := persistence.NewSuggestionStore(db)
	feedback := persistence.NewFeedbackStore(db)
	embeddings := persistence.NewEmbeddingStore(db)
	committer := persistence.NewSyncCommitter(db)

	require.NoError(t, suggestions.Save(ctx, []review.Suggestion{
		storedSuggestion("s1", "repo-1", review.PullRequestClosed),
		storedSuggestion("s2", "repo-1", review.PullRequestClosed),
	}))
	require.NoError(t, feedback.Save(ctx, []review.Feedback{
		review.NewFeedback("s1", 2, 0, false),
		review.NewFeedback("s2", 0, 0, false),
	}))

	// s1 survived classification and was embedded; s2 was neutral but its
	// records still flip synced so the next pass skips it.
	embedded := embeddedSuggestion("s1", "repo-1", "go", review.FeedbackPositive, []float64{1, 0})
	err := committer.Commit(ctx, []tuning.EmbeddedSuggestion{embedded}, []string{"s1", "s2"})
	require.NoError(t, err)

	stored, err := embeddings.Find(ctx, repository.WithSuggestionID("s1"))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []float64{1, 0}, stored[0].Vector())

	unsynced, err := suggestions.Find(ctx, repository.WithSynced(false))
	require.NoError(t, err)
	assert.Empty(t, unsynced)

	unsyncedFeedback, err := feedback.Find(ctx, repository.WithSynced(false))
	require.NoError(t, err)
	assert.Empty(t, unsyncedFeedback)
}

func TestSyncCommitter_CommitWithoutEmbeddings(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	suggestions := persistence.NewSuggestionStore(db)
	committer := persistence.NewSyncCommitter(db)

	require.NoError(t, suggestions.Save(ctx, []review.Suggestion{
		storedSuggestion("s1", "repo-1", review.PullRequestClosed),
	}))

	// All fetched suggestions were neutral; nothing to embed but the
	// synced flag still advances.
	require.NoError(t, committer.Commit(ctx, nil, []string{"s1"}))

	synced, err := suggestions.Find(ctx, repository.WithSynced(true))
	require.NoError(t, err)
	assert.Len(t, synced, 1)
}
