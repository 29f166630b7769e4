package participant

import (
	"net/mail"
	"regexp"
	"strings"
)

// ===========================
// Email Value Object
// ===========================

// Email 電子郵件值對象（小寫正規化）
type Email struct {
	value string
}

// NewEmail 建立電子郵件值對象
//
// 只接受裸地址（"a@b.org"），不接受 "Name <a@b.org>" 形式
func NewEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return Email{}, ErrInvalidEmail.WithContext("email", raw)
	}
	return Email{value: strings.ToLower(trimmed)}, nil
}

// String 返回電子郵件字串
func (e Email) String() string {
	return e.value
}

// Equals 比較兩個電子郵件
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// IsZero 是否未設定
func (e Email) IsZero() bool {
	return e.value == ""
}

// ===========================
// PhoneNumber Value Object
// ===========================

// PhoneNumber 電話號碼值對象
//
// 規則：可選的 "+" 前綴後接 8 到 15 位數字（E.164 長度上限）。
// 空白與連字號在驗證前移除："+1 415-555-0100" → "+14155550100"
type PhoneNumber struct {
	value string
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// NewPhoneNumber 建立電話號碼值對象
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	normalized := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if !phonePattern.MatchString(normalized) {
		return PhoneNumber{}, ErrInvalidPhoneNumberFormat.WithContext(
			"phone", raw,
			"reason", "must be 8-15 digits with optional leading +",
		)
	}
	return PhoneNumber{value: normalized}, nil
}

// String 返回正規化後的號碼
func (p PhoneNumber) String() string {
	return p.value
}

// Equals 比較兩個電話號碼
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.value == other.value
}

// IsZero 是否未設定
func (p PhoneNumber) IsZero() bool {
	return p.value == ""
}
