package checkin

import (
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/checkin"
	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/participant"
)

// RegistrationGORM 報名記錄資料表模型
//
// 資料庫約束：
// - (attendee_id, event_id): 複合主鍵，每對最多一筆
// - check_in_time / check_out_time / points_awarded: NULL 表示尚未發生
type RegistrationGORM struct {
	AttendeeID string `gorm:"column:attendee_id;type:varchar(64);primaryKey"`
	EventID    string `gorm:"column:event_id;type:varchar(64);primaryKey;index"`

	CheckInTime   *time.Time `gorm:"column:check_in_time"`
	CheckOutTime  *time.Time `gorm:"column:check_out_time"`
	PointsAwarded *int       `gorm:"column:points_awarded"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (RegistrationGORM) TableName() string {
	return "registrations"
}

func (m *RegistrationGORM) toDomain() (*checkin.Registration, error) {
	attendeeID, err := participant.ParticipantIDFromString(m.AttendeeID)
	if err != nil {
		return nil, err
	}
	eventID, err := event.EventIDFromString(m.EventID)
	if err != nil {
		return nil, err
	}

	return checkin.ReconstructRegistration(
		attendeeID,
		eventID,
		m.CheckInTime,
		m.CheckOutTime,
		m.PointsAwarded,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toGORM(r *checkin.Registration) *RegistrationGORM {
	var awarded *int
	if p := r.PointsAwarded(); p != nil {
		v := p.Value()
		awarded = &v
	}

	return &RegistrationGORM{
		AttendeeID:    r.AttendeeID().String(),
		EventID:       r.EventID().String(),
		CheckInTime:   r.CheckInTime(),
		CheckOutTime:  r.CheckOutTime(),
		PointsAwarded: awarded,
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}
