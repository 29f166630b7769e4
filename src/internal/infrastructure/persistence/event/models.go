package event

import (
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/event"
	"github.com/jackyeh168/green_events/src/internal/domain/points"
)

// EventGORM 活動資料表模型
type EventGORM struct {
	EventID     string `gorm:"column:event_id;type:varchar(64);primaryKey"`
	OrganizerID string `gorm:"column:organizer_id;type:varchar(64);not null;index"`

	Title       string    `gorm:"column:title;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text"`
	StartsAt    time.Time `gorm:"column:starts_at;not null;index"`
	EndsAt      time.Time `gorm:"column:ends_at;not null"`
	Latitude    float64   `gorm:"column:latitude;not null"`
	Longitude   float64   `gorm:"column:longitude;not null"`
	Address     string    `gorm:"column:address;type:varchar(512)"`
	ImageURL    string    `gorm:"column:image_url;type:varchar(1024)"`

	MaxParticipants int `gorm:"column:max_participants;not null"`
	// 簽退時可發放的最高積分
	RewardPoints int `gorm:"column:reward_points;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName 指定資料表名稱
func (EventGORM) TableName() string {
	return "events"
}

func (m *EventGORM) toDomain() (*event.Event, error) {
	eventID, err := event.EventIDFromString(m.EventID)
	if err != nil {
		return nil, err
	}
	organizerID, err := event.OrganizerIDFromString(m.OrganizerID)
	if err != nil {
		return nil, err
	}
	location, err := event.NewGeoPoint(m.Latitude, m.Longitude)
	if err != nil {
		return nil, err
	}
	ceiling, err := points.NewRewardCeiling(m.RewardPoints)
	if err != nil {
		return nil, err
	}

	return event.ReconstructEvent(eventID, organizerID, event.Details{
		Title:           m.Title,
		Description:     m.Description,
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt,
		Location:        location,
		Address:         m.Address,
		MaxParticipants: m.MaxParticipants,
		RewardCeiling:   ceiling,
		ImageURL:        m.ImageURL,
	}, m.CreatedAt)
}

func toGORM(e *event.Event) *EventGORM {
	return &EventGORM{
		EventID:         e.EventID().String(),
		OrganizerID:     e.OrganizerID().String(),
		Title:           e.Title(),
		Description:     e.Description(),
		StartsAt:        e.StartsAt(),
		EndsAt:          e.EndsAt(),
		Latitude:        e.Location().Lat(),
		Longitude:       e.Location().Lng(),
		Address:         e.Address(),
		ImageURL:        e.ImageURL(),
		MaxParticipants: e.MaxParticipants(),
		RewardPoints:    e.RewardCeiling().Max().Value(),
		CreatedAt:       e.CreatedAt(),
	}
}

func toDomainList(models []EventGORM) ([]*event.Event, error) {
	result := make([]*event.Event, 0, len(models))
	for i := range models {
		e, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}
