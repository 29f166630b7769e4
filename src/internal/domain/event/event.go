package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// Event Aggregate Root
// ===========================

// Event 活動聚合根（建立後不可變）
//
// 不變條件：
// - 標題不能為空
// - endsAt 晚於 startsAt
// - maxParticipants > 0
// - rewardCeiling >= 0
type Event struct {
	eventID         EventID
	organizerID     OrganizerID
	title           string
	description     string
	startsAt        time.Time
	endsAt          time.Time
	location        GeoPoint
	address         string
	maxParticipants int
	rewardCeiling   points.RewardCeiling
	imageURL        string
	createdAt       time.Time

	events []shared.DomainEvent
}

// Details 建立活動所需欄位
type Details struct {
	Title           string
	Description     string
	StartsAt        time.Time
	EndsAt          time.Time
	Location        GeoPoint
	Address         string
	MaxParticipants int
	RewardCeiling   points.RewardCeiling
	ImageURL        string
}

// NewEvent 建立新活動
func NewEvent(organizerID OrganizerID, d Details) (*Event, error) {
	if organizerID.IsEmpty() {
		return nil, ErrInvalidOrganizerID.WithContext("reason", "organizerID cannot be empty")
	}

	e, err := build(NewEventID(), organizerID, d, time.Now())
	if err != nil {
		return nil, err
	}

	e.events = append(e.events, newEventCreatedEvent(e))
	return e, nil
}

// ReconstructEvent 從資料庫重建活動
func ReconstructEvent(eventID EventID, organizerID OrganizerID, d Details, createdAt time.Time) (*Event, error) {
	if eventID.IsEmpty() {
		return nil, ErrInvalidEventID.WithContext("reason", "eventID cannot be empty")
	}
	return build(eventID, organizerID, d, createdAt)
}

func build(eventID EventID, organizerID OrganizerID, d Details, createdAt time.Time) (*Event, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if d.StartsAt.IsZero() || !d.EndsAt.After(d.StartsAt) {
		return nil, ErrInvalidSchedule.WithContext(
			"starts_at", d.StartsAt,
			"ends_at", d.EndsAt,
		)
	}
	if d.MaxParticipants <= 0 {
		return nil, ErrInvalidMaxParticipants.WithContext("max_participants", d.MaxParticipants)
	}

	return &Event{
		eventID:         eventID,
		organizerID:     organizerID,
		title:           title,
		description:     strings.TrimSpace(d.Description),
		startsAt:        d.StartsAt,
		endsAt:          d.EndsAt,
		location:        d.Location,
		address:         strings.TrimSpace(d.Address),
		maxParticipants: d.MaxParticipants,
		rewardCeiling:   d.RewardCeiling,
		imageURL:        strings.TrimSpace(d.ImageURL),
		createdAt:       createdAt,
		events:          make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// Getters
// ===========================

func (e *Event) EventID() EventID         { return e.eventID }
func (e *Event) OrganizerID() OrganizerID { return e.organizerID }
func (e *Event) Title() string            { return e.title }
func (e *Event) Description() string      { return e.description }
func (e *Event) StartsAt() time.Time      { return e.startsAt }
func (e *Event) EndsAt() time.Time        { return e.endsAt }
func (e *Event) Location() GeoPoint       { return e.location }
func (e *Event) Address() string          { return e.address }
func (e *Event) MaxParticipants() int     { return e.maxParticipants }
func (e *Event) ImageURL() string         { return e.imageURL }
func (e *Event) CreatedAt() time.Time     { return e.createdAt }

// RewardCeiling 簽退時可發放的最高積分
func (e *Event) RewardCeiling() points.RewardCeiling {
	return e.rewardCeiling
}

// Date 活動日期（開始時間所在日，UTC）
func (e *Event) Date() time.Time {
	y, m, d := e.startsAt.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsUpcoming 活動日期是否為今天或之後
func (e *Event) IsUpcoming(now time.Time) bool {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !e.Date().Before(today)
}

// PullEvents 取出待發布事件並清空
func (e *Event) PullEvents() []shared.DomainEvent {
	events := e.events
	e.events = make([]shared.DomainEvent, 0)
	return events
}

// ===========================
// EventCreated 領域事件
// ===========================

// EventCreatedEvent 活動建立事件
type EventCreatedEvent struct {
	eventID    string
	aggregate  EventID
	title      string
	organizer  OrganizerID
	occurredAt time.Time
}

func newEventCreatedEvent(e *Event) *EventCreatedEvent {
	return &EventCreatedEvent{
		eventID:    uuid.NewString(),
		aggregate:  e.eventID,
		title:      e.title,
		organizer:  e.organizerID,
		occurredAt: time.Now(),
	}
}

func (c *EventCreatedEvent) EventID() string       { return c.eventID }
func (c *EventCreatedEvent) EventType() string     { return "event.created" }
func (c *EventCreatedEvent) OccurredAt() time.Time { return c.occurredAt }
func (c *EventCreatedEvent) AggregateID() string   { return c.aggregate.String() }

// Payload 事件內容
func (c *EventCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"event_id":     c.aggregate.String(),
		"title":        c.title,
		"organizer_id": c.organizer.String(),
	}
}
