package checkin

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// RegisterForEvent Use Case
// ===========================

// RegisterForEventCommand 事先報名指令
type RegisterForEventCommand struct {
	AttendeeID string
	EventID    string
}

// RegisterForEventResult 事先報名結果
type RegisterForEventResult struct {
	AttendeeID   string
	EventID      string
	RegisteredAt time.Time
}

// RegisterForEventUseCase 參加者在活動前報名
//
// 掃描流程不依賴事先報名（首次掃描會自動建立記錄）；
// 此 Use Case 只負責人數上限與重複報名檢查。
type RegisterForEventUseCase struct {
	registrations checkin.RegistrationRepository
	events        event.EventRepository
	participants  participant.ParticipantRepository
	txManager     shared.TransactionManager
	publisher     shared.EventPublisher
	logger        *slog.Logger
}

// NewRegisterForEventUseCase 建立 Use Case
func NewRegisterForEventUseCase(
	registrations checkin.RegistrationRepository,
	events event.EventRepository,
	participants participant.ParticipantRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
) *RegisterForEventUseCase {
	return &RegisterForEventUseCase{
		registrations: registrations,
		events:        events,
		participants:  participants,
		txManager:     txManager,
		publisher:     publisher,
		logger:        slog.Default(),
	}
}

// WithLogger 指定記錄發布失敗的 logger
func (uc *RegisterForEventUseCase) WithLogger(logger *slog.Logger) *RegisterForEventUseCase {
	if logger != nil {
		uc.logger = logger
	}
	return uc
}

// Execute 執行報名
//
// 錯誤：
// - participant.ErrParticipantNotFound / event.ErrEventNotFound
// - checkin.ErrRegistrationAlreadyExists
// - checkin.ErrEventFull
func (uc *RegisterForEventUseCase) Execute(cmd RegisterForEventCommand) (*RegisterForEventResult, error) {
	attendeeID, err := participant.ParticipantIDFromString(cmd.AttendeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse attendee ID: %w", err)
	}
	eventID, err := event.EventIDFromString(cmd.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event ID: %w", err)
	}

	var reg *checkin.Registration
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if _, err := uc.participants.FindByID(ctx, attendeeID); err != nil {
			return fmt.Errorf("failed to find participant: %w", err)
		}

		ev, err := uc.events.FindByID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to find event: %w", err)
		}

		count, err := uc.registrations.CountByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if count >= int64(ev.MaxParticipants()) {
			return checkin.ErrEventFull.WithContext(
				"event_id", eventID.String(),
				"max_participants", ev.MaxParticipants(),
			)
		}

		reg, err = checkin.NewRegistration(attendeeID, eventID, time.Now())
		if err != nil {
			return err
		}
		if err := uc.registrations.Save(ctx, reg); err != nil {
			return fmt.Errorf("failed to save registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 發布失敗不影響報名結果
	publishEvents(uc.publisher, uc.logger, reg.PullEvents())

	return &RegisterForEventResult{
		AttendeeID:   attendeeID.String(),
		EventID:      eventID.String(),
		RegisteredAt: reg.CreatedAt(),
	}, nil
}
