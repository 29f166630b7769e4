package participant_test

import (
	"testing"

	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/stretchr/testify/assert"
)

// Test 1: Email 驗證
func TestNewEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"一般地址", "ada@example.org", "ada@example.org", false},
		{"大寫正規化", "Ada@Example.ORG", "ada@example.org", false},
		{"前後空白", "  ada@example.org ", "ada@example.org", false},
		{"缺少 @", "ada.example.org", "", true},
		{"帶顯示名稱", "Ada <ada@example.org>", "", true},
		{"空字串", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := participant.NewEmail(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, participant.ErrInvalidEmail)
				assert.True(t, email.IsZero())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, email.String())
		})
	}
}

// Test 2: PhoneNumber 驗證與正規化
func TestNewPhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"台灣手機", "0912345678", "0912345678", false},
		{"國際格式", "+1 415-555-0100", "+14155550100", false},
		{"太短", "12345", "", true},
		{"含字母", "09123abc78", "", true},
		{"太長", "+1234567890123456", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phone, err := participant.NewPhoneNumber(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, participant.ErrInvalidPhoneNumberFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, phone.String())
		})
	}
}

// Test 3: 值相等
func TestContact_Equals(t *testing.T) {
	a, _ := participant.NewEmail("a@x.org")
	b, _ := participant.NewEmail("A@X.org")
	assert.True(t, a.Equals(b))

	p1, _ := participant.NewPhoneNumber("0912-345-678")
	p2, _ := participant.NewPhoneNumber("0912345678")
	assert.True(t, p1.Equals(p2))
}
