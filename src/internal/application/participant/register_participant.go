package participant

import (
	"log/slog"
	"strings"

	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// ===========================
// RegisterParticipant Use Case
// ===========================

// RegisterParticipantCommand 註冊參加者指令（Input DTO）
//
// 使用原始類型，由 Use Case 轉換為 Value Object。
// Email 與 PhoneNumber 為選填，空字串表示未提供。
type RegisterParticipantCommand struct {
	DisplayName string
	Email       string
	PhoneNumber string
}

// RegisterParticipantResult 註冊結果（Output DTO）
type RegisterParticipantResult struct {
	ParticipantID string
	DisplayName   string
}

// RegisterParticipantUseCase 註冊參加者
//
// 業務規則：
// 1. DisplayName 不能為空
// 2. Email 若提供則不能重複
// 3. 新參加者的積分從 0 開始
type RegisterParticipantUseCase interface {
	Execute(cmd RegisterParticipantCommand) (*RegisterParticipantResult, error)
}

// RegisterParticipantUseCaseImpl 註冊參加者實作
type RegisterParticipantUseCaseImpl struct {
	participantRepo participant.ParticipantRepository
	txManager       shared.TransactionManager
	publisher       shared.EventPublisher
	logger          *slog.Logger
}

// NewRegisterParticipantUseCase 建立 Use Case；publisher 可為 nil
func NewRegisterParticipantUseCase(
	participantRepo participant.ParticipantRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
) RegisterParticipantUseCase {
	return &RegisterParticipantUseCaseImpl{
		participantRepo: participantRepo,
		txManager:       txManager,
		publisher:       publisher,
		logger:          slog.Default(),
	}
}

// Execute 執行註冊
//
// 錯誤處理：
// - 輸入驗證失敗 → participant.ErrInvalidDisplayName / ErrInvalidEmail / ErrInvalidPhoneNumberFormat
// - Email 已註冊 → participant.ErrEmailAlreadyRegistered
// - 資料庫錯誤 → 返回原始錯誤
func (uc *RegisterParticipantUseCaseImpl) Execute(cmd RegisterParticipantCommand) (*RegisterParticipantResult, error) {
	var (
		email participant.Email
		phone participant.PhoneNumber
		err   error
	)

	if strings.TrimSpace(cmd.Email) != "" {
		email, err = participant.NewEmail(cmd.Email)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(cmd.PhoneNumber) != "" {
		phone, err = participant.NewPhoneNumber(cmd.PhoneNumber)
		if err != nil {
			return nil, err
		}
	}

	var created *participant.Participant
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if !email.IsZero() {
			exists, err := uc.participantRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return err
			}
			if exists {
				return participant.ErrEmailAlreadyRegistered.WithContext("email", email.String())
			}
		}

		p, err := participant.NewParticipant(cmd.DisplayName, email, phone)
		if err != nil {
			return err
		}
		created = p
		return uc.participantRepo.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishBatch(created.PullEvents()); err != nil {
			uc.logger.Warn("failed to publish participant events",
				"participant_id", created.ParticipantID().String(),
				"error", err,
			)
		}
	}

	return &RegisterParticipantResult{
		ParticipantID: created.ParticipantID().String(),
		DisplayName:   created.DisplayName(),
	}, nil
}
