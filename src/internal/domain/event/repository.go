package event

import "github.com/jackyeh168/green_events/src/internal/domain/shared"

// EventRepository 活動倉儲介面（對應 fetchEvent）
type EventRepository interface {
	// Save 新增活動
	Save(ctx shared.TransactionContext, event *Event) error

	// FindByID 錯誤：ErrEventNotFound
	FindByID(ctx shared.TransactionContext, id EventID) (*Event, error)

	// FindByIDs 批次查詢，不存在的 ID 直接略過
	FindByIDs(ctx shared.TransactionContext, ids []EventID) ([]*Event, error)

	// FindAll 所有活動（依開始時間排序）
	FindAll(ctx shared.TransactionContext) ([]*Event, error)

	// FindByOrganizer 主辦方建立的活動
	FindByOrganizer(ctx shared.TransactionContext, organizerID OrganizerID) ([]*Event, error)
}
