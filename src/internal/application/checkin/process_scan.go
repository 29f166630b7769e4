package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// ProcessScan Use Case
// ===========================

// SettlementMode 簽退結算的寫入方式
type SettlementMode int

const (
	// SettlementSeparateWrites 報名記錄與參加者總積分分兩次寫入；
	// 第二次失敗時返回 checkin.ErrPartialUpdate
	SettlementSeparateWrites SettlementMode = iota

	// SettlementAtomic 兩次寫入在同一事務，失敗時整體回滾
	SettlementAtomic
)

// Outcome 掃描結果
type Outcome string

const (
	OutcomeCheckedIn  Outcome = "checked_in"
	OutcomeCheckedOut Outcome = "checked_out"
)

// ScanCommand 掃描指令（Input DTO）
type ScanCommand struct {
	Text     string         // QR 解碼後的文字
	Prompter PointsPrompter // 簽退時使用；nil 等同空白輸入
}

// ScanResult 掃描結果（Output DTO）
type ScanResult struct {
	Outcome          Outcome
	AttendeeID       string
	EventID          string
	CheckInTime      time.Time
	CheckOutTime     *time.Time
	PointsAwarded    *int
	ParticipantTotal *int
}

// ProcessScanDeps 依賴注入
type ProcessScanDeps struct {
	Registrations checkin.RegistrationRepository
	Events        event.EventRepository
	Participants  participant.ParticipantRepository
	TxManager     shared.TransactionManager
	Publisher     shared.EventPublisher // 可為 nil
	Logger        *slog.Logger          // nil 時使用 slog.Default()
	Clock         func() time.Time      // nil 時使用 time.Now
	Mode          SettlementMode
}

// ProcessScanUseCase 綁定單一活動的掃描處理
//
// 流程：
// 1. 解碼 payload（checkin.ErrPayloadMalformed / ErrPayloadMissingField）
// 2. payload 活動與綁定活動不同 → checkin.ErrEventMismatch，不讀取任何資料
// 3. 讀取報名記錄
// 4. 無記錄 → 建立並簽到；已簽退 → checkin.ErrAlreadyCheckedOut；已簽到 → 結算
type ProcessScanUseCase struct {
	deps         ProcessScanDeps
	boundEventID event.EventID
}

// NewProcessScanUseCase 建立綁定 boundEventID 的掃描 Use Case
func NewProcessScanUseCase(boundEventID string, deps ProcessScanDeps) (*ProcessScanUseCase, error) {
	eventID, err := event.EventIDFromString(boundEventID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bound event ID: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &ProcessScanUseCase{deps: deps, boundEventID: eventID}, nil
}

// BoundEventID 掃描器綁定的活動
func (uc *ProcessScanUseCase) BoundEventID() string {
	return uc.boundEventID.String()
}

// Execute 處理一次掃描
func (uc *ProcessScanUseCase) Execute(ctx context.Context, cmd ScanCommand) (*ScanResult, error) {
	payload, err := checkin.DecodePayload(cmd.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR payload: %w", err)
	}
	return uc.ExecutePayload(ctx, payload, cmd.Prompter)
}

// ExecutePayload 處理已解碼的 payload（攝影機模式在解碼後呼叫）
func (uc *ProcessScanUseCase) ExecutePayload(ctx context.Context, payload checkin.Payload, prompter PointsPrompter) (*ScanResult, error) {
	if !payload.EventID.Equals(uc.boundEventID) {
		return nil, checkin.ErrEventMismatch.WithContext(
			"payload_event_id", payload.EventID.String(),
			"bound_event_id", uc.boundEventID.String(),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg, err := uc.deps.Registrations.FindByKey(nil, payload.AttendeeID, payload.EventID)
	if err != nil {
		if errors.Is(err, checkin.ErrRegistrationNotFound) {
			return uc.checkInNew(payload)
		}
		return nil, fmt.Errorf("failed to fetch registration: %w", err)
	}

	switch reg.State() {
	case checkin.StateUnregistered:
		return uc.checkInExisting(reg)
	case checkin.StateCheckedIn:
		if prompter == nil {
			prompter = StaticPrompter("")
		}
		return uc.checkOut(ctx, reg, prompter)
	default:
		return nil, checkin.ErrAlreadyCheckedOut.WithContext(
			"attendee_id", payload.AttendeeID.String(),
			"event_id", payload.EventID.String(),
		)
	}
}

// checkInNew Unregistered（無記錄）→ CheckedIn：一次 insert
func (uc *ProcessScanUseCase) checkInNew(payload checkin.Payload) (*ScanResult, error) {
	reg, err := checkin.NewCheckedInRegistration(payload.AttendeeID, payload.EventID, uc.deps.Clock())
	if err != nil {
		return nil, err
	}

	err = uc.deps.TxManager.InTransaction(func(ctx shared.TransactionContext) error {
		return uc.deps.Registrations.Save(ctx, reg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert registration: %w", err)
	}

	return uc.finishCheckIn(reg), nil
}

// checkInExisting 事先報名但未簽到的記錄 → CheckedIn：一次 update
func (uc *ProcessScanUseCase) checkInExisting(reg *checkin.Registration) (*ScanResult, error) {
	if err := reg.CheckIn(uc.deps.Clock()); err != nil {
		return nil, err
	}

	err := uc.deps.TxManager.InTransaction(func(ctx shared.TransactionContext) error {
		return uc.deps.Registrations.Update(ctx, reg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	return uc.finishCheckIn(reg), nil
}

func (uc *ProcessScanUseCase) finishCheckIn(reg *checkin.Registration) *ScanResult {
	uc.deps.Logger.Info("attendee checked in",
		"attendee_id", reg.AttendeeID().String(),
		"event_id", reg.EventID().String(),
	)
	publishEvents(uc.deps.Publisher, uc.deps.Logger, reg.PullEvents())

	return &ScanResult{
		Outcome:     OutcomeCheckedIn,
		AttendeeID:  reg.AttendeeID().String(),
		EventID:     reg.EventID().String(),
		CheckInTime: *reg.CheckInTime(),
	}
}

// checkOut CheckedIn → CheckedOut 並結算獎勵
//
// 1. 讀取活動獎勵上限
// 2. 詢問操作員，驗證 [0, max]；無效時不寫入
// 3. 寫入 points_awarded 與 check_out_time
// 4. 讀取參加者總積分並寫回 total + value
func (uc *ProcessScanUseCase) checkOut(ctx context.Context, reg *checkin.Registration, prompter PointsPrompter) (*ScanResult, error) {
	ev, err := uc.deps.Events.FindByID(nil, reg.EventID())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	raw, err := prompter.PromptPoints(ctx, PromptRequest{
		AttendeeID: reg.AttendeeID().String(),
		EventID:    reg.EventID().String(),
		EventTitle: ev.Title(),
		Ceiling:    ev.RewardCeiling(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to obtain points from operator: %w", err)
	}

	award, err := points.ParseOperatorPoints(raw, ev.RewardCeiling())
	if err != nil {
		return nil, err
	}

	if err := reg.CheckOut(award, uc.deps.Clock()); err != nil {
		return nil, err
	}

	var p *participant.Participant
	if uc.deps.Mode == SettlementAtomic {
		err = uc.deps.TxManager.InTransaction(func(tx shared.TransactionContext) error {
			if err := uc.deps.Registrations.Update(tx, reg); err != nil {
				return fmt.Errorf("failed to update registration: %w", err)
			}
			var creditErr error
			p, creditErr = uc.creditParticipant(tx, reg, award)
			return creditErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to settle reward: %w", err)
		}
	} else {
		err = uc.deps.TxManager.InTransaction(func(tx shared.TransactionContext) error {
			return uc.deps.Registrations.Update(tx, reg)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update registration: %w", err)
		}

		err = uc.deps.TxManager.InTransaction(func(tx shared.TransactionContext) error {
			var creditErr error
			p, creditErr = uc.creditParticipant(tx, reg, award)
			return creditErr
		})
		if err != nil {
			uc.deps.Logger.Error("registration checked out but participant total not updated",
				"attendee_id", reg.AttendeeID().String(),
				"event_id", reg.EventID().String(),
				"points", award.Value(),
				"error", err,
			)
			// 報名記錄已提交，仍發布簽退事件
			publishEvents(uc.deps.Publisher, uc.deps.Logger, reg.PullEvents())
			return nil, checkin.ErrPartialUpdate.WithContext(
				"attendee_id", reg.AttendeeID().String(),
				"event_id", reg.EventID().String(),
				"points", award.Value(),
				"cause", err.Error(),
			)
		}
	}

	uc.deps.Logger.Info("attendee checked out",
		"attendee_id", reg.AttendeeID().String(),
		"event_id", reg.EventID().String(),
		"points", award.Value(),
		"total", p.RewardPoints().Value(),
	)

	events := reg.PullEvents()
	events = append(events, p.PullEvents()...)
	publishEvents(uc.deps.Publisher, uc.deps.Logger, events)

	awarded := award.Value()
	total := p.RewardPoints().Value()
	return &ScanResult{
		Outcome:          OutcomeCheckedOut,
		AttendeeID:       reg.AttendeeID().String(),
		EventID:          reg.EventID().String(),
		CheckInTime:      *reg.CheckInTime(),
		CheckOutTime:     reg.CheckOutTime(),
		PointsAwarded:    &awarded,
		ParticipantTotal: &total,
	}, nil
}

func (uc *ProcessScanUseCase) creditParticipant(
	tx shared.TransactionContext,
	reg *checkin.Registration,
	award points.PointsAmount,
) (*participant.Participant, error) {
	p, err := uc.deps.Participants.FindByID(tx, reg.AttendeeID())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participant: %w", err)
	}
	p.AwardPoints(award, reg.EventID().String())
	if err := uc.deps.Participants.Update(tx, p); err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}
	return p, nil
}
