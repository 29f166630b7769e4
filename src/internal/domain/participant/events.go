package participant

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
)

// ===========================
// ParticipantRegistered 領域事件
// ===========================

// ParticipantRegisteredEvent 參加者註冊事件
type ParticipantRegisteredEvent struct {
	eventID       string
	participantID ParticipantID
	displayName   string
	occurredAt    time.Time
}

// NewParticipantRegisteredEvent 建立註冊事件
func NewParticipantRegisteredEvent(participantID ParticipantID, displayName string) *ParticipantRegisteredEvent {
	return &ParticipantRegisteredEvent{
		eventID:       uuid.NewString(),
		participantID: participantID,
		displayName:   displayName,
		occurredAt:    time.Now(),
	}
}

func (e *ParticipantRegisteredEvent) EventID() string       { return e.eventID }
func (e *ParticipantRegisteredEvent) EventType() string     { return "participant.registered" }
func (e *ParticipantRegisteredEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *ParticipantRegisteredEvent) AggregateID() string   { return e.participantID.String() }

// Payload 事件內容
func (e *ParticipantRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"participant_id": e.participantID.String(),
		"display_name":   e.displayName,
	}
}

// ===========================
// PointsAwarded 領域事件
// ===========================

// PointsAwardedEvent 活動獎勵積分入帳事件
type PointsAwardedEvent struct {
	eventID       string
	participantID ParticipantID
	sourceEventID string
	amount        points.PointsAmount
	newTotal      points.PointsAmount
	occurredAt    time.Time
}

// NewPointsAwardedEvent 建立積分入帳事件
func NewPointsAwardedEvent(
	participantID ParticipantID,
	sourceEventID string,
	amount points.PointsAmount,
	newTotal points.PointsAmount,
) *PointsAwardedEvent {
	return &PointsAwardedEvent{
		eventID:       uuid.NewString(),
		participantID: participantID,
		sourceEventID: sourceEventID,
		amount:        amount,
		newTotal:      newTotal,
		occurredAt:    time.Now(),
	}
}

func (e *PointsAwardedEvent) EventID() string       { return e.eventID }
func (e *PointsAwardedEvent) EventType() string     { return "participant.points_awarded" }
func (e *PointsAwardedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *PointsAwardedEvent) AggregateID() string   { return e.participantID.String() }

// SourceEventID 發放積分的活動 ID
func (e *PointsAwardedEvent) SourceEventID() string {
	return e.sourceEventID
}

// Amount 本次發放積分
func (e *PointsAwardedEvent) Amount() points.PointsAmount {
	return e.amount
}

// NewTotal 發放後累積總數
func (e *PointsAwardedEvent) NewTotal() points.PointsAmount {
	return e.newTotal
}

// Payload 事件內容
func (e *PointsAwardedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"participant_id": e.participantID.String(),
		"event_id":       e.sourceEventID,
		"amount":         e.amount.Value(),
		"new_total":      e.newTotal.Value(),
	}
}
