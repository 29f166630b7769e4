package event

import (
	"fmt"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// CreateEvent Use Case
// ===========================

// CreateEventCommand 建立活動指令（原始類型，由 Use Case 轉換為值對象）
type CreateEventCommand struct {
	OrganizerID     string
	Title           string
	Description     string
	StartsAt        time.Time
	EndsAt          time.Time
	Latitude        float64
	Longitude       float64
	Address         string
	MaxParticipants int
	RewardPoints    int
	ImageURL        string
}

// CreateEventUseCase 主辦方建立活動
type CreateEventUseCase struct {
	eventRepo event.EventRepository
	txManager shared.TransactionManager
	publisher shared.EventPublisher
}

// NewCreateEventUseCase 建立 Use Case；publisher 可為 nil
func NewCreateEventUseCase(
	eventRepo event.EventRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
) *CreateEventUseCase {
	return &CreateEventUseCase{
		eventRepo: eventRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// Execute 驗證並保存活動
func (uc *CreateEventUseCase) Execute(cmd CreateEventCommand) (*EventDTO, error) {
	organizerID, err := event.OrganizerIDFromString(cmd.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse organizer ID: %w", err)
	}

	location, err := event.NewGeoPoint(cmd.Latitude, cmd.Longitude)
	if err != nil {
		return nil, err
	}

	ceiling, err := points.NewRewardCeiling(cmd.RewardPoints)
	if err != nil {
		return nil, err
	}

	e, err := event.NewEvent(organizerID, event.Details{
		Title:           cmd.Title,
		Description:     cmd.Description,
		StartsAt:        cmd.StartsAt,
		EndsAt:          cmd.EndsAt,
		Location:        location,
		Address:         cmd.Address,
		MaxParticipants: cmd.MaxParticipants,
		RewardCeiling:   ceiling,
		ImageURL:        cmd.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		return uc.eventRepo.Save(ctx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	if uc.publisher != nil {
		// 發布失敗不影響建立結果
		_ = uc.publisher.PublishBatch(e.PullEvents())
	}

	dto := toDTO(e)
	return &dto, nil
}
