package persistence

import (
	"errors"
	"testing"

	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	participantrepo "github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/participant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// TransactionManager Integration Tests
// ===========================
//
// 驗證 TransactionManager 的核心保證：
// 1. 錯誤時回滾，成功時提交
// 2. panic 時回滾並重新 panic
// 3. 多個操作在同一事務中一起成功或失敗

func newTestParticipant(t *testing.T, name string) *participant.Participant {
	t.Helper()
	p, err := participant.NewParticipant(name, participant.Email{}, participant.PhoneNumber{})
	require.NoError(t, err)
	return p
}

func TestRollbackOnError_DoesNotCommit(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := participantrepo.NewParticipantRepository(db)
	p := newTestParticipant(t, "Rollback")

	// Act
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		require.NoError(t, repo.Save(ctx, p), "Save should succeed within transaction")
		return errors.New("simulated error - trigger rollback")
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, "simulated error - trigger rollback", err.Error())

	_, err = repo.FindByID(nil, p.ParticipantID())
	assert.ErrorIs(t, err, participant.ErrParticipantNotFound, "participant should not exist after rollback")
}

func TestCommitOnSuccess_SavesData(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := participantrepo.NewParticipantRepository(db)
	p := newTestParticipant(t, "Commit")

	// Act
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		return repo.Save(ctx, p)
	})

	// Assert
	require.NoError(t, err)
	found, err := repo.FindByID(nil, p.ParticipantID())
	require.NoError(t, err, "participant should exist after commit")
	assert.Equal(t, "Commit", found.DisplayName())
}

func TestPanicRecovery_RollsBackAndRepanics(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := participantrepo.NewParticipantRepository(db)
	p := newTestParticipant(t, "Panic")

	// Act & Assert
	assert.PanicsWithValue(t, "simulated panic - should rollback", func() {
		_ = txManager.InTransaction(func(ctx shared.TransactionContext) error {
			require.NoError(t, repo.Save(ctx, p))
			panic("simulated panic - should rollback")
		})
	}, "panic should be re-thrown")

	_, err := repo.FindByID(nil, p.ParticipantID())
	assert.ErrorIs(t, err, participant.ErrParticipantNotFound, "participant should not exist after panic rollback")
}

func TestMultipleOperations_AtomicRollback(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	txManager := NewGORMTransactionManager(db)
	repo := participantrepo.NewParticipantRepository(db)
	p1 := newTestParticipant(t, "First")
	p2 := newTestParticipant(t, "Second")

	// Act
	err := txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := repo.Save(ctx, p1); err != nil {
			return err
		}
		if err := repo.Save(ctx, p2); err != nil {
			return err
		}
		return errors.New("second operation failed")
	})

	// Assert
	require.Error(t, err)
	_, err = repo.FindByID(nil, p1.ParticipantID())
	assert.ErrorIs(t, err, participant.ErrParticipantNotFound)
	_, err = repo.FindByID(nil, p2.ParticipantID())
	assert.ErrorIs(t, err, participant.ErrParticipantNotFound)
}

// 讀操作可傳入 nil context（auto-commit）
func TestRepository_NilContext_AutoCommitMode(t *testing.T) {
	db := setupTestDB(t)
	repo := participantrepo.NewParticipantRepository(db)
	txManager := NewGORMTransactionManager(db)
	p := newTestParticipant(t, "Reader")

	require.NoError(t, txManager.InTransaction(func(ctx shared.TransactionContext) error {
		return repo.Save(ctx, p)
	}))

	found, err := repo.FindByID(nil, p.ParticipantID())

	require.NoError(t, err)
	assert.True(t, found.ParticipantID().Equals(p.ParticipantID()))
}
