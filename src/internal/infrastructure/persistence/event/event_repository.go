package event

import (
	"errors"

	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	"github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/txctx"
	"gorm.io/gorm"
)

// GORMEventRepository 活動倉儲（GORM）
type GORMEventRepository struct {
	db *gorm.DB
}

// NewEventRepository 創建活動倉儲
func NewEventRepository(db *gorm.DB) event.EventRepository {
	return &GORMEventRepository{db: db}
}

// Save 新增活動，錯誤：ErrEventAlreadyExists
func (r *GORMEventRepository) Save(ctx shared.TransactionContext, e *event.Event) error {
	db := txctx.Resolve(ctx, r.db)

	if err := db.Create(toGORM(e)).Error; err != nil {
		if txctx.IsUniqueConstraintError(err) {
			return event.ErrEventAlreadyExists.WithContext("event_id", e.EventID().String())
		}
		return mapError(err)
	}
	return nil
}

// FindByID 根據 ID 查找活動
func (r *GORMEventRepository) FindByID(ctx shared.TransactionContext, id event.EventID) (*event.Event, error) {
	db := txctx.Resolve(ctx, r.db)

	var model EventGORM
	if err := db.Where("event_id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrEventNotFound.WithContext("event_id", id.String())
		}
		return nil, mapError(err)
	}
	return model.toDomain()
}

// FindByIDs 批次查詢（WHERE IN），不存在的 ID 直接略過
func (r *GORMEventRepository) FindByIDs(ctx shared.TransactionContext, ids []event.EventID) ([]*event.Event, error) {
	if len(ids) == 0 {
		return []*event.Event{}, nil
	}
	db := txctx.Resolve(ctx, r.db)

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var models []EventGORM
	if err := db.Where("event_id IN ?", raw).Order("starts_at").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainList(models)
}

// FindAll 依開始時間排序
func (r *GORMEventRepository) FindAll(ctx shared.TransactionContext) ([]*event.Event, error) {
	db := txctx.Resolve(ctx, r.db)

	var models []EventGORM
	if err := db.Order("starts_at").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainList(models)
}

// FindByOrganizer 主辦方建立的活動
func (r *GORMEventRepository) FindByOrganizer(ctx shared.TransactionContext, organizerID event.OrganizerID) ([]*event.Event, error) {
	db := txctx.Resolve(ctx, r.db)

	var models []EventGORM
	if err := db.Where("organizer_id = ?", organizerID.String()).Order("starts_at").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainList(models)
}

func mapError(err error) error {
	return event.ErrRepositoryError.WithContext("database_error", err.Error())
}
