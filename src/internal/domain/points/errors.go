package points

import "fmt"

// ErrorCode 錯誤代碼類型
type ErrorCode string

const (
	ErrCodeNegativePointsAmount ErrorCode = "POINTS_NEGATIVE"
	ErrCodeInvalidRewardCeiling ErrorCode = "REWARD_CEILING_INVALID"
	ErrCodeInvalidPoints        ErrorCode = "SETTLEMENT_INVALID_POINTS"
)

// DomainError 領域錯誤
//
// Code 用於 errors.Is 判斷與 HTTP 狀態碼映射，Context 用於日誌。
// 建立後不可修改，WithContext 返回新實例。
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %+v)", e.Code, e.Message, e.Context)
}

// ErrorCode 返回字串形式的錯誤代碼（供 Interface Layer 使用）
func (e *DomainError) ErrorCode() string {
	return string(e.Code)
}

// WithContext 添加上下文信息
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 以錯誤代碼比較
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrNegativePointsAmount = &DomainError{
		Code:    ErrCodeNegativePointsAmount,
		Message: "積分數量不能為負數",
	}

	ErrInvalidRewardCeiling = &DomainError{
		Code:    ErrCodeInvalidRewardCeiling,
		Message: "活動獎勵積分上限不能為負數",
	}

	// ErrInvalidPoints 操作員輸入的獎勵積分無效（非整數、負數或超過上限）
	ErrInvalidPoints = &DomainError{
		Code:    ErrCodeInvalidPoints,
		Message: "無效的獎勵積分",
	}
)
