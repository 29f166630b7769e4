package checkin

import (
	"fmt"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// GetRewardHistory Query
// ===========================

// GetRewardHistoryQuery 查詢參加者的活動與獎勵記錄
type GetRewardHistoryQuery struct {
	AttendeeID string
}

// RewardHistoryEntry 單場活動記錄
type RewardHistoryEntry struct {
	EventID       string
	EventTitle    string
	EventDate     time.Time
	State         string
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
	PointsAwarded *int
}

// RewardHistoryResult 查詢結果
type RewardHistoryResult struct {
	AttendeeID  string
	TotalPoints int
	Entries     []RewardHistoryEntry
}

// GetRewardHistoryUseCase 報名過的活動與每場發放積分
type GetRewardHistoryUseCase struct {
	registrations checkin.RegistrationRepository
	events        event.EventRepository
	participants  participant.ParticipantRepository
}

// NewGetRewardHistoryUseCase 建立查詢
func NewGetRewardHistoryUseCase(
	registrations checkin.RegistrationRepository,
	events event.EventRepository,
	participants participant.ParticipantRepository,
) *GetRewardHistoryUseCase {
	return &GetRewardHistoryUseCase{
		registrations: registrations,
		events:        events,
		participants:  participants,
	}
}

// Execute 以 auto-commit 模式查詢
func (uc *GetRewardHistoryUseCase) Execute(query GetRewardHistoryQuery) (*RewardHistoryResult, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在呼叫者的事務中查詢
func (uc *GetRewardHistoryUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	query GetRewardHistoryQuery,
) (*RewardHistoryResult, error) {
	attendeeID, err := participant.ParticipantIDFromString(query.AttendeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse attendee ID: %w", err)
	}

	p, err := uc.participants.FindByID(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}

	regs, err := uc.registrations.FindByAttendee(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	ids := make([]event.EventID, 0, len(regs))
	for _, r := range regs {
		ids = append(ids, r.EventID())
	}
	events, err := uc.events.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	byID := make(map[string]*event.Event, len(events))
	for _, e := range events {
		byID[e.EventID().String()] = e
	}

	entries := make([]RewardHistoryEntry, 0, len(regs))
	for _, r := range regs {
		// 只列出已結算積分的報名
		awarded := r.PointsAwarded()
		if awarded == nil {
			continue
		}
		entry := RewardHistoryEntry{
			EventID:      r.EventID().String(),
			State:        r.State().String(),
			CheckInTime:  r.CheckInTime(),
			CheckOutTime: r.CheckOutTime(),
		}
		if e, ok := byID[entry.EventID]; ok {
			entry.EventTitle = e.Title()
			entry.EventDate = e.Date()
		}
		v := awarded.Value()
		entry.PointsAwarded = &v
		entries = append(entries, entry)
	}

	return &RewardHistoryResult{
		AttendeeID:  attendeeID.String(),
		TotalPoints: p.RewardPoints().Value(),
		Entries:     entries,
	}, nil
}
