package participant

import (
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/participant"
	"gorm.io/gorm"
)

// ===========================
// GORM Models
// ===========================

// ParticipantGORM 參加者資料表模型
//
// 資料庫約束：
// - participant_id: 主鍵
// - email: 唯一索引，可為空
// - reward_points: 累積獎勵積分，不可為負
type ParticipantGORM struct {
	ParticipantID string `gorm:"column:participant_id;type:varchar(64);primaryKey"`

	DisplayName string  `gorm:"column:display_name;type:varchar(255);not null"`
	Email       *string `gorm:"column:email;type:varchar(320);uniqueIndex"` // Nullable
	PhoneNumber *string `gorm:"column:phone_number;type:varchar(16)"`       // Nullable

	RewardPoints int `gorm:"column:reward_points;not null;default:0;check:reward_points >= 0"`

	// 審計欄位
	CreatedAt time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
	Version   int            `gorm:"column:version;not null;default:1"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// TableName 指定資料表名稱
func (ParticipantGORM) TableName() string {
	return "participants"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain GORM → Domain；NULL 欄位轉為值對象零值
func (m *ParticipantGORM) toDomain() (*participant.Participant, error) {
	id, err := participant.ParticipantIDFromString(m.ParticipantID)
	if err != nil {
		return nil, err
	}

	var email participant.Email
	if m.Email != nil {
		email, err = participant.NewEmail(*m.Email)
		if err != nil {
			return nil, err
		}
	}

	var phone participant.PhoneNumber
	if m.PhoneNumber != nil {
		phone, err = participant.NewPhoneNumber(*m.PhoneNumber)
		if err != nil {
			return nil, err
		}
	}

	return participant.ReconstructParticipant(
		id,
		m.DisplayName,
		email,
		phone,
		m.RewardPoints,
		m.CreatedAt,
		m.UpdatedAt,
		m.Version,
	)
}

// toGORM Domain → GORM；值對象零值轉為 NULL
func toGORM(p *participant.Participant) *ParticipantGORM {
	return &ParticipantGORM{
		ParticipantID: p.ParticipantID().String(),
		DisplayName:   p.DisplayName(),
		Email:         nullable(p.Email().String()),
		PhoneNumber:   nullable(p.Phone().String()),
		RewardPoints:  p.RewardPoints().Value(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
		Version:       p.Version(),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
