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

func storedSuggestion(id, repoID string, state review.PullRequestState) review.Suggestion {
	repo := review.NewRepositoryRef(repoID, "kodus/"+repoID)
	s := review.NewSuggestion(id, "org-1", repo, 12, "go",
		"Wrap the error with context", "code_style", "medium")
	return s.WithPullRequestState(state)
}

func TestSuggestionStore_SaveAndFind(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewSuggestionStore(db)
	ctx := context.Background()

	err := store.Save(ctx, []review.Suggestion{
		storedSuggestion("s1", "repo-1", review.PullRequestClosed),
		storedSuggestion("s2", "repo-1", review.PullRequestOpen),
		storedSuggestion("s3", "repo-2", review.PullRequestClosed),
	})
	require.NoError(t, err)

	found, err := store.Find(ctx,
		repository.WithOrganizationID("org-1"),
		repository.WithRepositoryID("repo-1"),
		repository.WithPullRequestState(string(review.PullRequestClosed)),
	)
	require.NoError(t, err)
	require.Len(t, found, 1)

	got := found[0]
	assert.Equal(t, "s1", got.ID())
	assert.Equal(t, "org-1", got.OrganizationID())
	assert.Equal(t, "repo-1", got.Repository().ID())
	assert.Equal(t, "kodus/repo-1", got.Repository().FullName())
	assert.Equal(t, 12, got.PullRequestNumber())
	assert.Equal(t, review.PullRequestClosed, got.PullRequestState())
	assert.Equal(t, "go", got.Language())
	assert.Equal(t, "Wrap the error with context", got.Content())
	assert.Equal(t, "code_style", got.Label())
	assert.Equal(t, "medium", got.Severity())
	assert.False(t, got.Synced())
}

func TestSuggestionStore_SaveUpserts(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewSuggestionStore(db)
	ctx := context.Background()

	first := storedSuggestion("s1", "repo-1", review.PullRequestOpen)
	require.NoError(t, store.Save(ctx, []review.Suggestion{first}))

	updated := first.WithPullRequestState(review.PullRequestClosed)
	require.NoError(t, store.Save(ctx, []review.Suggestion{updated}))

	found, err := store.Find(ctx, repository.WithSuggestionID("s1"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, review.PullRequestClosed, found[0].PullRequestState())
}

func TestSuggestionStore_MarkSynced(t *testing.T) {
	db := testdb.New(t)
	store := persistence.NewSuggestionStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []review.Suggestion{
		storedSuggestion("s1", "repo-1", review.PullRequestClosed),
		storedSuggestion("s2", "repo-1", review.PullRequestClosed),
		storedSuggestion("s3", "repo-2", review.PullRequestClosed),
	}))

	err := store.MarkSynced(ctx, true, repository.WithSuggestionIDIn([]string{"s1", "s2"}))
	require.NoError(t, err)

	unsynced, err := store.Find(ctx, repository.WithSynced(false))
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, "s3", unsynced[0].ID())

	synced, err := store.Find(ctx, repository.WithSynced(true))
	require.NoError(t, err)
	assert.Len(t, synced, 2)
}
