package persistence

import (
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/txctx"
	"gorm.io/gorm"
)

// ===========================
// GORMTransactionManager
// ===========================

// GORMTransactionManager 以 GORM 事務實作 shared.TransactionManager
//
// - fn 返回 nil → COMMIT
// - fn 返回 error → ROLLBACK，原樣返回該 error
// - fn panic → ROLLBACK 後重新 panic
type GORMTransactionManager struct {
	db *gorm.DB
}

// NewGORMTransactionManager 創建事務管理器
func NewGORMTransactionManager(db *gorm.DB) shared.TransactionManager {
	return &GORMTransactionManager{db: db}
}

// InTransaction 在單一資料庫事務中執行 fn
func (m *GORMTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) (err error) {
	tx := m.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(txctx.New(tx)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
