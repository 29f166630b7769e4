package checkin

import (
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// RegistrationRepository 報名記錄倉儲
//
// 對應資料儲存契約的 fetchRegistration / insertRegistration / updateRegistration。
// 每一次狀態轉換是一次讀取加上恰好一次寫入，倉儲不提供跨列的原子性保證。
type RegistrationRepository interface {
	// FindByKey fetchRegistration，錯誤：ErrRegistrationNotFound
	FindByKey(ctx shared.TransactionContext, attendeeID participant.ParticipantID, eventID event.EventID) (*Registration, error)

	// Save insertRegistration，錯誤：ErrRegistrationAlreadyExists
	Save(ctx shared.TransactionContext, registration *Registration) error

	// Update updateRegistration，錯誤：ErrRegistrationNotFound
	Update(ctx shared.TransactionContext, registration *Registration) error

	// FindByAttendee 參加者所有報名記錄（依建立時間排序）
	FindByAttendee(ctx shared.TransactionContext, attendeeID participant.ParticipantID) ([]*Registration, error)

	// CountByEvent 活動的報名數
	CountByEvent(ctx shared.TransactionContext, eventID event.EventID) (int64, error)
}
