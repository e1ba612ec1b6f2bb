package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kodustech/kody-finetune/internal/database"
)

func TestWithTransaction_Commits(t *testing.T) {
	db, repo := newNoteRepo(t)
	ctx := context.Background()

	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		return tx.Create(&noteModel{ID: "n1", Topic: "go"}).Error
	})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, repo := newNoteRepo(t)
	ctx := context.Background()
	cause := errors.New("validation failed")

	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Create(&noteModel{ID: "n1", Topic: "go"}).Error; err != nil {
			return err
		}
		return cause
	})
	assert.ErrorIs(t, err, cause)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestWithTransactionResult(t *testing.T) {
	db, _ := newNoteRepo(t)
	ctx := context.Background()

	id, err := database.WithTransactionResult(ctx, db, func(tx *gorm.DB) (string, error) {
		if err := tx.Create(&noteModel{ID: "n1"}).Error; err != nil {
			return "", err
		}
		return "n1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "n1", id)
}

func TestTransaction_ManualCommitAndRollback(t *testing.T) {
	db, repo := newNoteRepo(t)
	ctx := context.Background()

	tx, err := database.NewTransaction(ctx, db)
	require.NoError(t, err)
	require.NoError(t, tx.Session().Create(&noteModel{ID: "n1"}).Error)
	require.NoError(t, tx.Commit())

	tx2, err := database.NewTransaction(ctx, db)
	require.NoError(t, err)
	require.NoError(t, tx2.Session().Create(&noteModel{ID: "n2"}).Error)
	require.NoError(t, tx2.Rollback())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
