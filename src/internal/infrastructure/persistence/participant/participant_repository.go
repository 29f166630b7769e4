package participant

import (
	"errors"

	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/txctx"
	"gorm.io/gorm"
)

// ===========================
// ParticipantRepositoryImpl
// ===========================

// ParticipantRepositoryImpl 參加者倉儲實現（GORM）
//
// 錯誤映射：
// - gorm.ErrRecordNotFound → participant.ErrParticipantNotFound
// - 唯一約束 → participant.ErrParticipantAlreadyExists
// - 其他 → participant.ErrRepositoryError（附 database_error）
type ParticipantRepositoryImpl struct {
	db *gorm.DB
}

// NewParticipantRepository 創建參加者倉儲
func NewParticipantRepository(db *gorm.DB) participant.ParticipantRepository {
	return &ParticipantRepositoryImpl{db: db}
}

// Save 新增參加者
func (r *ParticipantRepositoryImpl) Save(ctx shared.TransactionContext, p *participant.Participant) error {
	db := txctx.Resolve(ctx, r.db)

	if err := db.Create(toGORM(p)).Error; err != nil {
		if txctx.IsUniqueConstraintError(err) {
			return participant.ErrParticipantAlreadyExists.WithContext(
				"participant_id", p.ParticipantID().String(),
				"email", p.Email().String(),
			)
		}
		return mapError(err)
	}
	return nil
}

// FindByID 根據 ID 查找參加者
func (r *ParticipantRepositoryImpl) FindByID(ctx shared.TransactionContext, id participant.ParticipantID) (*participant.Participant, error) {
	db := txctx.Resolve(ctx, r.db)

	var model ParticipantGORM
	if err := db.Where("participant_id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, participant.ErrParticipantNotFound.WithContext(
				"participant_id", id.String(),
			)
		}
		return nil, mapError(err)
	}

	return model.toDomain()
}

// ExistsByEmail 使用 COUNT 查詢，不載入完整資料
func (r *ParticipantRepositoryImpl) ExistsByEmail(ctx shared.TransactionContext, email participant.Email) (bool, error) {
	db := txctx.Resolve(ctx, r.db)

	var count int64
	if err := db.Model(&ParticipantGORM{}).Where("email = ?", email.String()).Count(&count).Error; err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

// Update 寫回參加者
//
// 以 Updates 只更新可變欄位；影響列數為 0 時返回 ErrParticipantNotFound
func (r *ParticipantRepositoryImpl) Update(ctx shared.TransactionContext, p *participant.Participant) error {
	db := txctx.Resolve(ctx, r.db)
	model := toGORM(p)

	result := db.Model(&ParticipantGORM{}).
		Where("participant_id = ?", model.ParticipantID).
		Updates(map[string]interface{}{
			"display_name":  model.DisplayName,
			"email":         model.Email,
			"phone_number":  model.PhoneNumber,
			"reward_points": model.RewardPoints,
			"updated_at":    model.UpdatedAt,
			"version":       model.Version,
		})
	if result.Error != nil {
		if txctx.IsUniqueConstraintError(result.Error) {
			return participant.ErrEmailAlreadyRegistered.WithContext("email", p.Email().String())
		}
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return participant.ErrParticipantNotFound.WithContext(
			"participant_id", model.ParticipantID,
		)
	}
	return nil
}

func mapError(err error) error {
	return participant.ErrRepositoryError.WithContext("database_error", err.Error())
}
