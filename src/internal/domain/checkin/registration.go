package checkin

import (
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// State
// ===========================

// State 參加者在某場活動的簽到狀態
type State int

const (
	// StateUnregistered 沒有報名記錄，或記錄存在但尚未簽到
	StateUnregistered State = iota
	// StateCheckedIn 已簽到、未簽退
	StateCheckedIn
	// StateCheckedOut 已簽退（終止狀態）
	StateCheckedOut
)

func (s State) String() string {
	switch s {
	case StateCheckedIn:
		return "checked_in"
	case StateCheckedOut:
		return "checked_out"
	default:
		return "unregistered"
	}
}

// ===========================
// Registration Aggregate Root
// ===========================

// Registration 報名記錄聚合根，以 (attendeeID, eventID) 為識別
//
// 不變條件：
// - checkOutTime 有值 ⇒ checkInTime 有值
// - pointsAwarded 有值 ⇔ checkOutTime 有值（零積分也算有值）
// - 簽退後不再變更
type Registration struct {
	attendeeID    participant.ParticipantID
	eventID       event.EventID
	checkInTime   *time.Time
	checkOutTime  *time.Time
	pointsAwarded *points.PointsAmount

	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
}

// NewRegistration 事先報名（尚未簽到）
func NewRegistration(attendeeID participant.ParticipantID, eventID event.EventID, now time.Time) (*Registration, error) {
	if err := validateKey(attendeeID, eventID); err != nil {
		return nil, err
	}

	r := &Registration{
		attendeeID: attendeeID,
		eventID:    eventID,
		createdAt:  now,
		updatedAt:  now,
		events:     make([]shared.DomainEvent, 0),
	}
	r.addEvent(newRegistrationEvent(eventTypeRegistered, r, now, nil))
	return r, nil
}

// NewCheckedInRegistration 第一次掃描時建立記錄並直接簽到
func NewCheckedInRegistration(attendeeID participant.ParticipantID, eventID event.EventID, now time.Time) (*Registration, error) {
	if err := validateKey(attendeeID, eventID); err != nil {
		return nil, err
	}

	r := &Registration{
		attendeeID: attendeeID,
		eventID:    eventID,
		createdAt:  now,
		updatedAt:  now,
		events:     make([]shared.DomainEvent, 0),
	}
	if err := r.CheckIn(now); err != nil {
		return nil, err
	}
	return r, nil
}

// ReconstructRegistration 從資料庫重建，違反不變條件時返回錯誤
func ReconstructRegistration(
	attendeeID participant.ParticipantID,
	eventID event.EventID,
	checkInTime *time.Time,
	checkOutTime *time.Time,
	pointsAwarded *int,
	createdAt time.Time,
	updatedAt time.Time,
) (*Registration, error) {
	if err := validateKey(attendeeID, eventID); err != nil {
		return nil, err
	}

	var awarded *points.PointsAmount
	if pointsAwarded != nil {
		amount, err := points.NewPointsAmount(*pointsAwarded)
		if err != nil {
			return nil, ErrRegistrationInvariantViolation.WithContext(
				"attendee_id", attendeeID.String(),
				"event_id", eventID.String(),
				"points_awarded", *pointsAwarded,
			)
		}
		awarded = &amount
	}

	r := &Registration{
		attendeeID:    attendeeID,
		eventID:       eventID,
		checkInTime:   checkInTime,
		checkOutTime:  checkOutTime,
		pointsAwarded: awarded,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		events:        make([]shared.DomainEvent, 0),
	}
	if err := r.checkInvariants(); err != nil {
		return nil, err
	}
	return r, nil
}

func validateKey(attendeeID participant.ParticipantID, eventID event.EventID) error {
	if attendeeID.IsEmpty() {
		return participant.ErrInvalidParticipantID.WithContext("reason", "attendeeID cannot be empty")
	}
	if eventID.IsEmpty() {
		return event.ErrInvalidEventID.WithContext("reason", "eventID cannot be empty")
	}
	return nil
}

// ===========================
// 查詢方法
// ===========================

// State 由時間欄位推導狀態
func (r *Registration) State() State {
	switch {
	case r.checkOutTime != nil:
		return StateCheckedOut
	case r.checkInTime != nil:
		return StateCheckedIn
	default:
		return StateUnregistered
	}
}

func (r *Registration) AttendeeID() participant.ParticipantID { return r.attendeeID }
func (r *Registration) EventID() event.EventID                { return r.eventID }
func (r *Registration) CheckInTime() *time.Time               { return copyTime(r.checkInTime) }
func (r *Registration) CheckOutTime() *time.Time              { return copyTime(r.checkOutTime) }
func (r *Registration) CreatedAt() time.Time                  { return r.createdAt }
func (r *Registration) UpdatedAt() time.Time                  { return r.updatedAt }

// PointsAwarded 簽退時發放的積分；未簽退返回 nil
func (r *Registration) PointsAwarded() *points.PointsAmount {
	if r.pointsAwarded == nil {
		return nil
	}
	amount := *r.pointsAwarded
	return &amount
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ===========================
// 命令方法
// ===========================

// CheckIn Unregistered → CheckedIn
func (r *Registration) CheckIn(now time.Time) error {
	switch r.State() {
	case StateCheckedOut:
		return ErrAlreadyCheckedOut.WithContext(
			"attendee_id", r.attendeeID.String(),
			"event_id", r.eventID.String(),
		)
	case StateCheckedIn:
		// 已簽到：保留原始簽到時間
		return nil
	}

	t := now
	r.checkInTime = &t
	r.updatedAt = now
	r.addEvent(newRegistrationEvent(eventTypeCheckedIn, r, now, nil))
	return r.checkInvariants()
}

// CheckOut CheckedIn → CheckedOut，同時記錄發放積分
//
// 已簽退時返回 ErrAlreadyCheckedOut 且不做任何變更
func (r *Registration) CheckOut(award points.PointsAmount, now time.Time) error {
	switch r.State() {
	case StateCheckedOut:
		return ErrAlreadyCheckedOut.WithContext(
			"attendee_id", r.attendeeID.String(),
			"event_id", r.eventID.String(),
		)
	case StateUnregistered:
		return ErrNotCheckedIn.WithContext(
			"attendee_id", r.attendeeID.String(),
			"event_id", r.eventID.String(),
		)
	}

	t := now
	amount := award
	r.checkOutTime = &t
	r.pointsAwarded = &amount
	r.updatedAt = now
	r.addEvent(newRegistrationEvent(eventTypeCheckedOut, r, now, &amount))
	return r.checkInvariants()
}

func (r *Registration) checkInvariants() error {
	if r.checkOutTime != nil && r.checkInTime == nil {
		return ErrRegistrationInvariantViolation.WithContext(
			"attendee_id", r.attendeeID.String(),
			"event_id", r.eventID.String(),
			"reason", "check_out_time set without check_in_time",
		)
	}
	if (r.pointsAwarded != nil) != (r.checkOutTime != nil) {
		return ErrRegistrationInvariantViolation.WithContext(
			"attendee_id", r.attendeeID.String(),
			"event_id", r.eventID.String(),
			"reason", "points_awarded must be set exactly when checked out",
		)
	}
	return nil
}

// ===========================
// 事件管理
// ===========================

func (r *Registration) addEvent(e shared.DomainEvent) {
	r.events = append(r.events, e)
}

// PullEvents 取出待發布事件並清空
func (r *Registration) PullEvents() []shared.DomainEvent {
	events := r.events
	r.events = make([]shared.DomainEvent, 0)
	return events
}
