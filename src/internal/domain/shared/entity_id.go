package shared

import (
	"unicode/utf8"

	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 泛型實體 ID 值對象
//
// 泛型參數 T 為標記類型（marker type），僅用於編譯期區分：
// EntityID[AttendeeMarker] 與 EntityID[EventMarker] 不能互相賦值。
//
// 內部以字串保存：活動平台的主鍵有 UUID 也有數字流水號，
// 而 QR payload 只保證識別碼為非空字串。
//
// 使用範例：
//
//	type EventMarker struct{}
//	type EventID = shared.EntityID[EventMarker]
//
//	id := shared.NewEntityID[EventMarker]()
//	id, err := shared.EntityIDFromString[EventMarker]("E1", ErrInvalidEventID)
type EntityID[T any] struct {
	value string
}

// NewEntityID 生成新的實體 ID（UUID v4 字串）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.NewString()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 規則：非空、合法 UTF-8。不做 trim，原樣保留，
// 以確保 QR 編碼/解碼後得到完全相同的識別碼。
//
// errTemplate 由呼叫端提供（例如 checkin.ErrInvalidAttendeeID），
// 若支援 WithContext 則附加輸入值。
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	reason := ""
	switch {
	case s == "":
		reason = "identifier cannot be empty"
	case !utf8.ValidString(s):
		reason = "identifier must be valid UTF-8"
	}

	if reason != "" {
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"reason", reason,
			)
		}
		return EntityID[T]{}, errTemplate
	}

	return EntityID[T]{value: s}, nil
}

// String 返回原始識別碼字串
func (e EntityID[T]) String() string {
	return e.value
}

// Equals 比較兩個相同類型的 EntityID
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為零值
func (e EntityID[T]) IsEmpty() bool {
	return e.value == ""
}
