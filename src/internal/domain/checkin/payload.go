package checkin

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
)

// ===========================
// QR Payload
// ===========================

// Payload QR code 承載的內容
//
// 線上格式：{"attendee_id":"A1","event_id":"E1"}
// 沒有版本、簽章或有效期限。
type Payload struct {
	AttendeeID participant.ParticipantID
	EventID    event.EventID
}

const (
	fieldAttendeeID = "attendee_id"
	fieldEventID    = "event_id"
)

type wirePayload struct {
	AttendeeID string `json:"attendee_id"`
	EventID    string `json:"event_id"`
}

// NewPayload 由字串識別碼建立 Payload
func NewPayload(attendeeID, eventID string) (Payload, error) {
	aid, err := participant.ParticipantIDFromString(attendeeID)
	if err != nil {
		return Payload{}, err
	}
	eid, err := event.EventIDFromString(eventID)
	if err != nil {
		return Payload{}, err
	}
	return Payload{AttendeeID: aid, EventID: eid}, nil
}

// Encode 編碼為 QR 文字
//
// 只做標準 JSON 跳脫（不轉義 <, >, &），輸出決定性：相同輸入得到相同字串
func (p Payload) Encode() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// 兩個字串欄位的 struct 不會編碼失敗
	_ = enc.Encode(wirePayload{
		AttendeeID: p.AttendeeID.String(),
		EventID:    p.EventID.String(),
	})
	return strings.TrimSuffix(buf.String(), "\n")
}

// DecodePayload 解析 QR 文字
//
// 錯誤：
// - ErrPayloadMalformed：不是 JSON 物件，或欄位不是字串/數字
// - ErrPayloadMissingField：欄位不存在、為 null 或空字串
//
// 數字型識別碼保留原始文字（"event_id": 7 → "7"）。多餘的欄位忽略。
func DecodePayload(text string) (Payload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Payload{}, ErrPayloadMalformed.WithContext("reason", err.Error())
	}
	if raw == nil {
		return Payload{}, ErrPayloadMalformed.WithContext("reason", "payload is null")
	}

	attendee, err := stringField(raw, fieldAttendeeID)
	if err != nil {
		return Payload{}, err
	}
	eventID, err := stringField(raw, fieldEventID)
	if err != nil {
		return Payload{}, err
	}

	return NewPayload(attendee, eventID)
}

func stringField(raw map[string]json.RawMessage, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", ErrPayloadMissingField.WithContext("field", key)
	}

	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", ErrPayloadMissingField.WithContext("field", key)
	}

	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", ErrPayloadMalformed.WithContext("field", key, "reason", err.Error())
		}
		if s == "" {
			return "", ErrPayloadMissingField.WithContext("field", key)
		}
		return s, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return string(trimmed), nil
	default:
		return "", ErrPayloadMalformed.WithContext(
			"field", key,
			"reason", "identifier must be a string or number",
		)
	}
}
