package event

import "github.com/jackyeh168/green_events/src/internal/domain/shared"

// EventMarker EventID 的標記類型
type EventMarker struct{}

// EventID 活動識別碼（QR payload 中的 event_id）
type EventID = shared.EntityID[EventMarker]

// NewEventID 生成新的活動 ID
func NewEventID() EventID {
	return shared.NewEntityID[EventMarker]()
}

// EventIDFromString 從字串解析活動 ID
func EventIDFromString(s string) (EventID, error) {
	return shared.EntityIDFromString[EventMarker](s, ErrInvalidEventID)
}

// OrganizerMarker OrganizerID 的標記類型
type OrganizerMarker struct{}

// OrganizerID 主辦方識別碼（存取權杖中的 sub）
type OrganizerID = shared.EntityID[OrganizerMarker]

// OrganizerIDFromString 從字串解析主辦方 ID
func OrganizerIDFromString(s string) (OrganizerID, error) {
	return shared.EntityIDFromString[OrganizerMarker](s, ErrInvalidOrganizerID)
}
