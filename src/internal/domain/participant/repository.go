package participant

import "github.com/jackyeh168/green_events/src/internal/domain/shared"

// ParticipantRepository 參加者倉儲介面
//
// 對應資料儲存契約中的 fetchParticipant / updateParticipant。
// 寫入方法要求 ctx != nil；讀取方法 ctx 可為 nil（auto-commit）。
type ParticipantRepository interface {
	// Save 新增參加者
	// 錯誤：ErrParticipantAlreadyExists
	Save(ctx shared.TransactionContext, participant *Participant) error

	// FindByID 錯誤：ErrParticipantNotFound
	FindByID(ctx shared.TransactionContext, id ParticipantID) (*Participant, error)

	// ExistsByEmail 檢查電子郵件是否已註冊
	ExistsByEmail(ctx shared.TransactionContext, email Email) (bool, error)

	// Update 寫回參加者（包含 reward_points）
	// 錯誤：ErrParticipantNotFound
	Update(ctx shared.TransactionContext, participant *Participant) error
}
