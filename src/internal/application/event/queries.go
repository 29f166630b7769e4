package event

import (
	"fmt"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// GetEvent
// ===========================

// GetEventUseCase 查詢單一活動
type GetEventUseCase struct {
	eventRepo event.EventRepository
}

func NewGetEventUseCase(eventRepo event.EventRepository) *GetEventUseCase {
	return &GetEventUseCase{eventRepo: eventRepo}
}

// Execute 錯誤：event.ErrEventNotFound
func (uc *GetEventUseCase) Execute(eventID string) (*EventDTO, error) {
	id, err := event.EventIDFromString(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event ID: %w", err)
	}

	e, err := uc.eventRepo.FindByID(nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	dto := toDTO(e)
	return &dto, nil
}

// ===========================
// FindNearbyEvents
// ===========================

// FindNearbyEventsQuery 以座標與半徑查詢
type FindNearbyEventsQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// DefaultNearbyRadiusKm 未指定半徑時使用
const DefaultNearbyRadiusKm = 25.0

// FindNearbyEventsUseCase 附近的活動（由近到遠）
type FindNearbyEventsUseCase struct {
	eventRepo event.EventRepository
}

func NewFindNearbyEventsUseCase(eventRepo event.EventRepository) *FindNearbyEventsUseCase {
	return &FindNearbyEventsUseCase{eventRepo: eventRepo}
}

// Execute 執行查詢
func (uc *FindNearbyEventsUseCase) Execute(query FindNearbyEventsQuery) ([]EventDTO, error) {
	origin, err := event.NewGeoPoint(query.Latitude, query.Longitude)
	if err != nil {
		return nil, err
	}
	radius := query.RadiusKm
	if radius <= 0 {
		radius = DefaultNearbyRadiusKm
	}

	all, err := uc.eventRepo.FindAll(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	nearby := event.FilterNearby(all, origin, radius)
	result := make([]EventDTO, 0, len(nearby))
	for _, n := range nearby {
		dto := toDTO(n.Event)
		d := n.DistanceKm
		dto.DistanceKm = &d
		result = append(result, dto)
	}
	return result, nil
}

// ===========================
// BrowseEvents
// ===========================

// BrowseEventsQuery 即將舉行的活動列表
type BrowseEventsQuery struct {
	Search      string
	Sort        string // points_high | points_low | date_new | date_old
	OrganizerID string // 非空時只列出該主辦方的活動（含過去活動）
}

// BrowseEventsUseCase 活動列表
type BrowseEventsUseCase struct {
	eventRepo event.EventRepository
	clock     func() time.Time
}

func NewBrowseEventsUseCase(eventRepo event.EventRepository) *BrowseEventsUseCase {
	return &BrowseEventsUseCase{eventRepo: eventRepo, clock: time.Now}
}

// Execute 執行查詢
func (uc *BrowseEventsUseCase) Execute(query BrowseEventsQuery) ([]EventDTO, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在呼叫者的事務中查詢
func (uc *BrowseEventsUseCase) ExecuteWithContext(ctx shared.TransactionContext, query BrowseEventsQuery) ([]EventDTO, error) {
	order, err := event.ParseSortOrder(query.Sort)
	if err != nil {
		return nil, err
	}

	var events []*event.Event
	if query.OrganizerID != "" {
		organizerID, err := event.OrganizerIDFromString(query.OrganizerID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse organizer ID: %w", err)
		}
		events, err = uc.eventRepo.FindByOrganizer(ctx, organizerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list organizer events: %w", err)
		}
	} else {
		all, err := uc.eventRepo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		events = event.Browse(all, uc.clock(), query.Search, order)
	}

	result := make([]EventDTO, 0, len(events))
	for _, e := range events {
		result = append(result, toDTO(e))
	}
	return result, nil
}
