package event

import "fmt"

// ErrorCode Event Domain 錯誤代碼
type ErrorCode string

const (
	ErrCodeInvalidEventID         ErrorCode = "INVALID_EVENT_ID"
	ErrCodeInvalidOrganizerID     ErrorCode = "INVALID_ORGANIZER_ID"
	ErrCodeInvalidTitle           ErrorCode = "INVALID_EVENT_TITLE"
	ErrCodeInvalidSchedule        ErrorCode = "INVALID_EVENT_SCHEDULE"
	ErrCodeInvalidLocation        ErrorCode = "INVALID_EVENT_LOCATION"
	ErrCodeInvalidMaxParticipants ErrorCode = "INVALID_MAX_PARTICIPANTS"
	ErrCodeInvalidSortOrder       ErrorCode = "INVALID_SORT_ORDER"
	ErrCodeEventNotFound          ErrorCode = "EVENT_NOT_FOUND"
	ErrCodeEventAlreadyExists     ErrorCode = "EVENT_ALREADY_EXISTS"
	ErrCodeRepositoryError        ErrorCode = "REPOSITORY_ERROR"
)

// DomainError Event Domain 錯誤
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

// ErrorCode 返回字串形式的錯誤代碼
func (e *DomainError) ErrorCode() string {
	return string(e.Code)
}

// WithContext 添加上下文信息（返回新實例）
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

	return &DomainError{Code: e.Code, Message: e.Message, Context: ctx}
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
	ErrInvalidEventID = &DomainError{
		Code:    ErrCodeInvalidEventID,
		Message: "無效的活動 ID",
	}

	ErrInvalidOrganizerID = &DomainError{
		Code:    ErrCodeInvalidOrganizerID,
		Message: "無效的主辦方 ID",
	}

	ErrInvalidTitle = &DomainError{
		Code:    ErrCodeInvalidTitle,
		Message: "活動標題不能為空",
	}

	ErrInvalidSchedule = &DomainError{
		Code:    ErrCodeInvalidSchedule,
		Message: "活動結束時間必須晚於開始時間",
	}

	ErrInvalidLocation = &DomainError{
		Code:    ErrCodeInvalidLocation,
		Message: "無效的經緯度",
	}

	ErrInvalidMaxParticipants = &DomainError{
		Code:    ErrCodeInvalidMaxParticipants,
		Message: "參加人數上限必須大於 0",
	}

	ErrInvalidSortOrder = &DomainError{
		Code:    ErrCodeInvalidSortOrder,
		Message: "不支援的排序方式",
	}

	ErrEventNotFound = &DomainError{
		Code:    ErrCodeEventNotFound,
		Message: "活動不存在",
	}

	ErrEventAlreadyExists = &DomainError{
		Code:    ErrCodeEventAlreadyExists,
		Message: "活動已存在",
	}

	// ErrRepositoryError 倉儲錯誤，Context["cause"] 保留資料庫原始訊息
	ErrRepositoryError = &DomainError{
		Code:    ErrCodeRepositoryError,
		Message: "活動倉儲操作失敗",
	}
)
