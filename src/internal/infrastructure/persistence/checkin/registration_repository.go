package checkin

import (
	"errors"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/txctx"
	"gorm.io/gorm"
)

// GORMRegistrationRepository 報名記錄倉儲（GORM）
//
// 每個方法恰好執行一條 SQL；跨列原子性由呼叫端的事務決定
type GORMRegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository 創建報名記錄倉儲
func NewRegistrationRepository(db *gorm.DB) checkin.RegistrationRepository {
	return &GORMRegistrationRepository{db: db}
}

// FindByKey 以 (attendee_id, event_id) 查詢
func (r *GORMRegistrationRepository) FindByKey(
	ctx shared.TransactionContext,
	attendeeID participant.ParticipantID,
	eventID event.EventID,
) (*checkin.Registration, error) {
	db := txctx.Resolve(ctx, r.db)

	var model RegistrationGORM
	err := db.Where("attendee_id = ? AND event_id = ?", attendeeID.String(), eventID.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkin.ErrRegistrationNotFound.WithContext(
				"attendee_id", attendeeID.String(),
				"event_id", eventID.String(),
			)
		}
		return nil, mapError(err)
	}
	return model.toDomain()
}

// Save INSERT；同一對已存在時返回 ErrRegistrationAlreadyExists
func (r *GORMRegistrationRepository) Save(ctx shared.TransactionContext, reg *checkin.Registration) error {
	db := txctx.Resolve(ctx, r.db)

	if err := db.Create(toGORM(reg)).Error; err != nil {
		if txctx.IsUniqueConstraintError(err) {
			return checkin.ErrRegistrationAlreadyExists.WithContext(
				"attendee_id", reg.AttendeeID().String(),
				"event_id", reg.EventID().String(),
			)
		}
		return mapError(err)
	}
	return nil
}

// Update 寫回時間戳記與獎勵
//
// 使用 map 以便把 NULL 欄位明確寫入
func (r *GORMRegistrationRepository) Update(ctx shared.TransactionContext, reg *checkin.Registration) error {
	db := txctx.Resolve(ctx, r.db)
	model := toGORM(reg)

	result := db.Model(&RegistrationGORM{}).
		Where("attendee_id = ? AND event_id = ?", model.AttendeeID, model.EventID).
		Updates(map[string]interface{}{
			"check_in_time":  model.CheckInTime,
			"check_out_time": model.CheckOutTime,
			"points_awarded": model.PointsAwarded,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return checkin.ErrRegistrationNotFound.WithContext(
			"attendee_id", model.AttendeeID,
			"event_id", model.EventID,
		)
	}
	return nil
}

// FindByAttendee 參加者所有報名記錄
func (r *GORMRegistrationRepository) FindByAttendee(
	ctx shared.TransactionContext,
	attendeeID participant.ParticipantID,
) ([]*checkin.Registration, error) {
	db := txctx.Resolve(ctx, r.db)

	var models []RegistrationGORM
	if err := db.Where("attendee_id = ?", attendeeID.String()).Order("created_at").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}

	result := make([]*checkin.Registration, 0, len(models))
	for i := range models {
		reg, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	return result, nil
}

// CountByEvent 活動的報名數
func (r *GORMRegistrationRepository) CountByEvent(ctx shared.TransactionContext, eventID event.EventID) (int64, error) {
	db := txctx.Resolve(ctx, r.db)

	var count int64
	if err := db.Model(&RegistrationGORM{}).Where("event_id = ?", eventID.String()).Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func mapError(err error) error {
	return checkin.ErrRepositoryError.WithContext("database_error", err.Error())
}
