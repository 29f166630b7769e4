package participant

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCode Participant Domain 錯誤代碼
type ErrorCode string

const (
	ErrCodeInvalidParticipantID       ErrorCode = "INVALID_PARTICIPANT_ID"
	ErrCodeInvalidDisplayName         ErrorCode = "INVALID_DISPLAY_NAME"
	ErrCodeInvalidEmail               ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidPhoneNumberFormat   ErrorCode = "INVALID_PHONE_NUMBER_FORMAT"
	ErrCodeParticipantNotFound        ErrorCode = "PARTICIPANT_NOT_FOUND"
	ErrCodeParticipantAlreadyExists   ErrorCode = "PARTICIPANT_ALREADY_EXISTS"
	ErrCodeEmailAlreadyRegistered     ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodeParticipantInvariantBroken ErrorCode = "PARTICIPANT_INVARIANT_VIOLATION"
	ErrCodeRepositoryError            ErrorCode = "REPOSITORY_ERROR"
)

// DomainError Participant Domain 錯誤結構
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error 實作 error 介面
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return e.Message + " (context: " + formatContext(e.Context) + ")"
}

// ErrorCode 返回字串形式的錯誤代碼
func (e *DomainError) ErrorCode() string {
	return string(e.Code)
}

// WithContext 添加上下文信息（返回新實例）
//
//	return ErrInvalidEmail.WithContext("email", raw)
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	newErr := &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: make(map[string]interface{}, len(e.Context)+len(keyValues)/2),
	}
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		newErr.Context[key] = keyValues[i+1]
	}
	return newErr
}

// Is 以錯誤代碼比較（支援 errors.Is）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// formatContext 依 key 排序輸出，讓日誌穩定
func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

var (
	ErrInvalidParticipantID = &DomainError{
		Code:    ErrCodeInvalidParticipantID,
		Message: "無效的參加者 ID",
	}

	ErrInvalidDisplayName = &DomainError{
		Code:    ErrCodeInvalidDisplayName,
		Message: "顯示名稱不能為空",
	}

	ErrInvalidEmail = &DomainError{
		Code:    ErrCodeInvalidEmail,
		Message: "無效的電子郵件地址",
	}

	ErrInvalidPhoneNumberFormat = &DomainError{
		Code:    ErrCodeInvalidPhoneNumberFormat,
		Message: "無效的電話號碼格式",
	}

	ErrParticipantNotFound = &DomainError{
		Code:    ErrCodeParticipantNotFound,
		Message: "參加者不存在",
	}

	ErrParticipantAlreadyExists = &DomainError{
		Code:    ErrCodeParticipantAlreadyExists,
		Message: "參加者已存在",
	}

	ErrEmailAlreadyRegistered = &DomainError{
		Code:    ErrCodeEmailAlreadyRegistered,
		Message: "電子郵件已被註冊",
	}

	ErrParticipantInvariantViolation = &DomainError{
		Code:    ErrCodeParticipantInvariantBroken,
		Message: "參加者資料違反不變條件",
	}

	// ErrRepositoryError 倉儲錯誤，Context["cause"] 保留資料庫原始訊息
	ErrRepositoryError = &DomainError{
		Code:    ErrCodeRepositoryError,
		Message: "參加者倉儲操作失敗",
	}
)
