package shared

// TransactionContext 事務上下文（標記介面）
//
// 行為約定：
// - ctx != nil：在呼叫者的事務中執行
// - ctx == nil：auto-commit，適用於單一讀取
//
// 寫入（Save / Update）必須透過 TransactionManager.InTransaction 取得 ctx。
// 具體實作（GORM）在 Infrastructure Layer，Domain 與 Application 只依賴此介面。
type TransactionContext interface{}

// TransactionManager 事務管理器
//
// fn 返回 error 或 panic 時整個事務回滾。
type TransactionManager interface {
	InTransaction(fn func(ctx TransactionContext) error) error
}
