package txctx

import (
	"errors"
	"strings"

	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// gormTransactionContext GORM 事務上下文實作
//
// 封裝 *gorm.DB，避免洩漏到 Domain Layer；GetDB() 只供 Infrastructure Layer 使用
type gormTransactionContext struct {
	db *gorm.DB
}

// New 創建 GORM 事務上下文
func New(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB 獲取事務中的 DB 連接
func (ctx *gormTransactionContext) GetDB() *gorm.DB {
	return ctx.db
}

// Resolve 從 TransactionContext 取得 DB
//
// - ctx 是 GORM 事務上下文 → 事務中的 DB
// - ctx 為 nil 或其他實作 → fallback（auto-commit）
func Resolve(ctx shared.TransactionContext, fallback *gorm.DB) *gorm.DB {
	if gormCtx, ok := ctx.(*gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return fallback
}

// IsUniqueConstraintError 檢查是否為唯一約束錯誤
//
// 支援的資料庫：
// - SQLite: "UNIQUE constraint failed"
// - PostgreSQL: "duplicate key value violates unique constraint"（SQLSTATE 23505）
// - MySQL: "Duplicate entry"（Error 1062）
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, marker := range []string{
		"UNIQUE constraint failed",
		"duplicate key value",
		"SQLSTATE 23505",
		"Duplicate entry",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
