package participant

import "github.com/jackyeh168/green_events/src/internal/domain/shared"

// ParticipantMarker ParticipantID 的標記類型
type ParticipantMarker struct{}

// ParticipantID 參加者識別碼，同時也是 QR payload 中的 attendee_id
type ParticipantID = shared.EntityID[ParticipantMarker]

// NewParticipantID 生成新的參加者 ID（UUID v4）
func NewParticipantID() ParticipantID {
	return shared.NewEntityID[ParticipantMarker]()
}

// ParticipantIDFromString 從字串解析參加者 ID
func ParticipantIDFromString(s string) (ParticipantID, error) {
	return shared.EntityIDFromString[ParticipantMarker](s, ErrInvalidParticipantID)
}
