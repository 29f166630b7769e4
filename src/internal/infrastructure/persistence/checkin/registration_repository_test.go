package checkin

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&RegistrationGORM{}))

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func keys(t *testing.T, attendee, ev string) (participant.ParticipantID, event.EventID) {
	t.Helper()
	a, err := participant.ParticipantIDFromString(attendee)
	require.NoError(t, err)
	e, err := event.EventIDFromString(ev)
	require.NoError(t, err)
	return a, e
}

// Test 1: 簽到記錄寫入後可讀回，狀態為 CheckedIn
func TestRegistrationRepository_SaveAndFind_CheckedIn(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRegistrationRepository(db)
	a, e := keys(t, "A1", "E1")
	now := time.Date(2026, 4, 22, 9, 0, 0, 0, time.UTC)
	reg, err := checkin.NewCheckedInRegistration(a, e, now)
	require.NoError(t, err)

	// Act
	require.NoError(t, repo.Save(nil, reg))
	found, err := repo.FindByKey(nil, a, e)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, checkin.StateCheckedIn, found.State())
	require.NotNil(t, found.CheckInTime())
	assert.True(t, now.Equal(*found.CheckInTime()))
	assert.Nil(t, found.CheckOutTime())
	assert.Nil(t, found.PointsAwarded())
}

// Test 2: 找不到
func TestRegistrationRepository_FindByKey_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRegistrationRepository(db)
	a, e := keys(t, "A1", "E1")

	_, err := repo.FindByKey(nil, a, e)

	assert.ErrorIs(t, err, checkin.ErrRegistrationNotFound)
}

// Test 3: 複合主鍵阻止同一對重複寫入
func TestRegistrationRepository_Save_DuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRegistrationRepository(db)
	a, e := keys(t, "A1", "E1")
	first, _ := checkin.NewCheckedInRegistration(a, e, time.Now())
	second, _ := checkin.NewCheckedInRegistration(a, e, time.Now())
	require.NoError(t, repo.Save(nil, first))

	err := repo.Save(nil, second)

	assert.ErrorIs(t, err, checkin.ErrRegistrationAlreadyExists)
}

// Test 4: Update 寫入簽退時間與獎勵
func TestRegistrationRepository_Update_CheckOut(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewRegistrationRepository(db)
	a, e := keys(t, "A1", "E1")
	in := time.Date(2026, 4, 22, 9, 0, 0, 0, time.UTC)
	reg, _ := checkin.NewCheckedInRegistration(a, e, in)
	require.NoError(t, repo.Save(nil, reg))

	award, _ := points.NewPointsAmount(30)
	require.NoError(t, reg.CheckOut(award, in.Add(2*time.Hour)))

	// Act
	require.NoError(t, repo.Update(nil, reg))

	// Assert
	found, err := repo.FindByKey(nil, a, e)
	require.NoError(t, err)
	assert.Equal(t, checkin.StateCheckedOut, found.State())
	require.NotNil(t, found.PointsAwarded())
	assert.Equal(t, 30, found.PointsAwarded().Value())
	assert.True(t, in.Add(2*time.Hour).Equal(*found.CheckOutTime()))
}

// Test 5: Update 不存在的記錄
func TestRegistrationRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRegistrationRepository(db)
	a, e := keys(t, "A9", "E9")
	reg, _ := checkin.NewCheckedInRegistration(a, e, time.Now())

	err := repo.Update(nil, reg)

	assert.ErrorIs(t, err, checkin.ErrRegistrationNotFound)
}

// Test 6: 違反不變條件的資料列無法載入
func TestRegistrationRepository_FindByKey_CorruptRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRegistrationRepository(db)
	out := time.Now()
	require.NoError(t, db.Create(&RegistrationGORM{
		AttendeeID:   "A1",
		EventID:      "E1",
		CheckOutTime: &out, // 有簽退但沒有簽到
		CreatedAt:    out,
		UpdatedAt:    out,
	}).Error)
	a, e := keys(t, "A1", "E1")

	_, err := repo.FindByKey(nil, a, e)

	assert.ErrorIs(t, err, checkin.ErrRegistrationInvariantViolation)
}

// Test 7: FindByAttendee 與 CountByEvent
func TestRegistrationRepository_FindByAttendee_And_CountByEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRegistrationRepository(db)
	a1, e1 := keys(t, "A1", "E1")
	a2, e2 := keys(t, "A2", "E2")
	now := time.Now()

	for _, pair := range []struct {
		a participant.ParticipantID
		e event.EventID
	}{{a1, e1}, {a1, e2}, {a2, e1}} {
		reg, err := checkin.NewRegistration(pair.a, pair.e, now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(nil, reg))
	}

	regs, err := repo.FindByAttendee(nil, a1)
	require.NoError(t, err)
	assert.Len(t, regs, 2)

	count, err := repo.CountByEvent(nil, e1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
