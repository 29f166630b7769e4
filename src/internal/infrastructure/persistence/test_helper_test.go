package persistence

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ===========================
// 測試輔助函數
// ===========================

// setupTestDB 創建測試用的 SQLite in-memory 資料庫
//
// 每個測試使用獨立的具名 in-memory DB（cache=shared），
// 讓事務連線與 auto-commit 連線看到同一份資料
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Options{
		Driver: DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}
