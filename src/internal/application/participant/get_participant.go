package participant

import (
	"fmt"

	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// GetParticipantQuery 查詢參加者
type GetParticipantQuery struct {
	ParticipantID string
}

// GetParticipantResult 參加者資料與累積積分
type GetParticipantResult struct {
	ParticipantID string
	DisplayName   string
	Email         string
	PhoneNumber   string
	RewardPoints  int
}

// GetParticipantUseCase 查詢參加者與積分總額
type GetParticipantUseCase struct {
	participantRepo participant.ParticipantRepository
}

// NewGetParticipantUseCase 創建 Use Case 實例
func NewGetParticipantUseCase(repo participant.ParticipantRepository) *GetParticipantUseCase {
	return &GetParticipantUseCase{participantRepo: repo}
}

// Execute 執行查詢
//
// 錯誤處理：
// - ErrInvalidParticipantID: ID 格式無效
// - ErrParticipantNotFound: 參加者不存在
func (uc *GetParticipantUseCase) Execute(query GetParticipantQuery) (*GetParticipantResult, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在事務上下文中執行查詢；ctx 可為 nil
func (uc *GetParticipantUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	query GetParticipantQuery,
) (*GetParticipantResult, error) {
	id, err := participant.ParticipantIDFromString(query.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse participant ID: %w", err)
	}

	p, err := uc.participantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}

	return &GetParticipantResult{
		ParticipantID: p.ParticipantID().String(),
		DisplayName:   p.DisplayName(),
		Email:         p.Email().String(),
		PhoneNumber:   p.Phone().String(),
		RewardPoints:  p.RewardPoints().Value(),
	}, nil
}
