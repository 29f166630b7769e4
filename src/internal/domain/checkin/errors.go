package checkin

import "fmt"

// ErrorCode 簽到流程錯誤代碼
type ErrorCode string

const (
	// QR payload 解碼
	ErrCodePayloadMalformed    ErrorCode = "PAYLOAD_MALFORMED"
	ErrCodePayloadMissingField ErrorCode = "PAYLOAD_MISSING_FIELD"

	// 影像擷取
	ErrCodeQRCodeNotFound ErrorCode = "SCAN_QR_NOT_FOUND"

	// 狀態機
	ErrCodeEventMismatch     ErrorCode = "STATE_EVENT_MISMATCH"
	ErrCodeAlreadyCheckedOut ErrorCode = "STATE_ALREADY_CHECKED_OUT"
	ErrCodeNotCheckedIn      ErrorCode = "STATE_NOT_CHECKED_IN"

	// 獎勵結算
	ErrCodePartialUpdate ErrorCode = "SETTLEMENT_PARTIAL_UPDATE"

	// 報名記錄
	ErrCodeRegistrationNotFound      ErrorCode = "REGISTRATION_NOT_FOUND"
	ErrCodeRegistrationAlreadyExists ErrorCode = "REGISTRATION_ALREADY_EXISTS"
	ErrCodeRegistrationInvariant     ErrorCode = "REGISTRATION_INVARIANT_VIOLATION"
	ErrCodeEventFull                 ErrorCode = "EVENT_FULL"
	ErrCodeRepositoryError           ErrorCode = "REPOSITORY_ERROR"
)

// DomainError 簽到流程領域錯誤
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
	// ErrPayloadMalformed 文字不是合法的 JSON 物件，或欄位型別錯誤
	ErrPayloadMalformed = &DomainError{
		Code:    ErrCodePayloadMalformed,
		Message: "QR 內容格式錯誤",
	}

	// ErrPayloadMissingField 缺少 attendee_id 或 event_id（Context["field"]）
	ErrPayloadMissingField = &DomainError{
		Code:    ErrCodePayloadMissingField,
		Message: "QR 內容缺少必要欄位",
	}

	// ErrQRCodeNotFound 影像中找不到 QR code
	ErrQRCodeNotFound = &DomainError{
		Code:    ErrCodeQRCodeNotFound,
		Message: "影像中找不到 QR code",
	}

	// ErrEventMismatch QR 所屬活動與掃描器綁定的活動不同
	ErrEventMismatch = &DomainError{
		Code:    ErrCodeEventMismatch,
		Message: "此 QR code 不屬於目前的活動",
	}

	// ErrAlreadyCheckedOut 已簽退，不可重複簽退
	ErrAlreadyCheckedOut = &DomainError{
		Code:    ErrCodeAlreadyCheckedOut,
		Message: "參加者已簽退",
	}

	// ErrNotCheckedIn 尚未簽到，不可簽退
	ErrNotCheckedIn = &DomainError{
		Code:    ErrCodeNotCheckedIn,
		Message: "參加者尚未簽到",
	}

	// ErrPartialUpdate 報名記錄已寫入，但參加者累積積分更新失敗，需人工對帳
	ErrPartialUpdate = &DomainError{
		Code:    ErrCodePartialUpdate,
		Message: "簽退已記錄，但積分累計更新失敗",
	}

	ErrRegistrationNotFound = &DomainError{
		Code:    ErrCodeRegistrationNotFound,
		Message: "報名記錄不存在",
	}

	ErrRegistrationAlreadyExists = &DomainError{
		Code:    ErrCodeRegistrationAlreadyExists,
		Message: "報名記錄已存在",
	}

	ErrRegistrationInvariantViolation = &DomainError{
		Code:    ErrCodeRegistrationInvariant,
		Message: "報名記錄違反不變條件",
	}

	ErrEventFull = &DomainError{
		Code:    ErrCodeEventFull,
		Message: "活動報名人數已滿",
	}

	// ErrRepositoryError 倉儲錯誤，Context["cause"] 保留資料庫原始訊息
	ErrRepositoryError = &DomainError{
		Code:    ErrCodeRepositoryError,
		Message: "報名倉儲操作失敗",
	}
)
