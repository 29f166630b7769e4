package participant

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===========================
// ParticipantRepository Integration Tests
// ===========================

// setupTestDB 創建測試資料庫（每個測試獨立的 in-memory SQLite）
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(&ParticipantGORM{}), "failed to migrate database schema")

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestParticipant(t *testing.T, email string) *participant.Participant {
	t.Helper()

	var e participant.Email
	if email != "" {
		var err error
		e, err = participant.NewEmail(email)
		require.NoError(t, err)
	}

	p, err := participant.NewParticipant("Test User", e, participant.PhoneNumber{})
	require.NoError(t, err)
	return p
}

// Test 1: 新增參加者
func TestParticipantRepository_Save_Success(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)
	p := createTestParticipant(t, "")

	// Act
	err := repo.Save(nil, p)

	// Assert
	require.NoError(t, err)

	var model ParticipantGORM
	require.NoError(t, db.First(&model, "participant_id = ?", p.ParticipantID().String()).Error)
	assert.Equal(t, "Test User", model.DisplayName)
	assert.Nil(t, model.Email, "empty email should be stored as NULL")
	assert.Equal(t, 0, model.RewardPoints)
}

// Test 2: 重複 email
func TestParticipantRepository_Save_DuplicateEmail_ReturnsAlreadyExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)
	require.NoError(t, repo.Save(nil, createTestParticipant(t, "dup@example.org")))

	err := repo.Save(nil, createTestParticipant(t, "dup@example.org"))

	assert.ErrorIs(t, err, participant.ErrParticipantAlreadyExists)
}

// Test 3: 多個未提供 email 的參加者（NULL 不觸發唯一索引）
func TestParticipantRepository_Save_MultipleWithoutEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)

	require.NoError(t, repo.Save(nil, createTestParticipant(t, "")))
	require.NoError(t, repo.Save(nil, createTestParticipant(t, "")))
}

// Test 4: FindByID 找不到
func TestParticipantRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)

	found, err := repo.FindByID(nil, participant.NewParticipantID())

	assert.ErrorIs(t, err, participant.ErrParticipantNotFound)
	assert.Nil(t, found)
}

// Test 5: ExistsByEmail
func TestParticipantRepository_ExistsByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)
	p := createTestParticipant(t, "alice@example.org")
	require.NoError(t, repo.Save(nil, p))

	exists, err := repo.ExistsByEmail(nil, p.Email())
	require.NoError(t, err)
	assert.True(t, exists)

	other, _ := participant.NewEmail("bob@example.org")
	exists, err = repo.ExistsByEmail(nil, other)
	require.NoError(t, err)
	assert.False(t, exists)
}

// Test 6: Update 寫回累積積分
func TestParticipantRepository_Update_PersistsRewardPoints(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)
	p := createTestParticipant(t, "carol@example.org")
	require.NoError(t, repo.Save(nil, p))

	award, _ := points.NewPointsAmount(30)
	p.AwardPoints(award, "E1")

	// Act
	err := repo.Update(nil, p)

	// Assert
	require.NoError(t, err)
	retrieved, err := repo.FindByID(nil, p.ParticipantID())
	require.NoError(t, err)
	assert.Equal(t, 30, retrieved.RewardPoints().Value())
	assert.Equal(t, p.Version(), retrieved.Version())
	assert.True(t, retrieved.Email().Equals(p.Email()))
}

// Test 7: Update 不存在的參加者
func TestParticipantRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewParticipantRepository(db)

	err := repo.Update(nil, createTestParticipant(t, ""))

	assert.ErrorIs(t, err, participant.ErrParticipantNotFound)
}

// Test 8: 資料表不存在時返回 ErrRepositoryError
func TestParticipantRepository_FindByID_DatabaseError(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&ParticipantGORM{}))
	repo := NewParticipantRepository(db)

	_, err := repo.FindByID(nil, participant.NewParticipantID())

	assert.ErrorIs(t, err, participant.ErrRepositoryError)
}
