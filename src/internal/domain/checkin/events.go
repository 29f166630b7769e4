package checkin

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
)

const (
	eventTypeRegistered = "checkin.registered"
	eventTypeCheckedIn  = "checkin.checked_in"
	eventTypeCheckedOut = "checkin.checked_out"
)

// RegistrationEvent 報名記錄狀態變更事件
//
// EventType 區分 registered / checked_in / checked_out；
// 簽退事件帶有發放積分。
type RegistrationEvent struct {
	eventID    string
	eventType  string
	attendeeID string
	activityID string
	points     *points.PointsAmount
	occurredAt time.Time
}

func newRegistrationEvent(eventType string, r *Registration, at time.Time, awarded *points.PointsAmount) *RegistrationEvent {
	return &RegistrationEvent{
		eventID:    uuid.NewString(),
		eventType:  eventType,
		attendeeID: r.attendeeID.String(),
		activityID: r.eventID.String(),
		points:     awarded,
		occurredAt: at,
	}
}

func (e *RegistrationEvent) EventID() string       { return e.eventID }
func (e *RegistrationEvent) EventType() string     { return e.eventType }
func (e *RegistrationEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 複合鍵 "attendee_id:event_id"
func (e *RegistrationEvent) AggregateID() string {
	return e.attendeeID + ":" + e.activityID
}

// EventRecordID 報名記錄所屬活動 ID
func (e *RegistrationEvent) EventRecordID() string {
	return e.activityID
}

// Payload 事件內容
func (e *RegistrationEvent) Payload() map[string]interface{} {
	data := map[string]interface{}{
		"attendee_id": e.attendeeID,
		"event_id":    e.activityID,
	}
	if e.points != nil {
		data["points_awarded"] = e.points.Value()
	}
	return data
}
