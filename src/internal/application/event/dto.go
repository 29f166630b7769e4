package event

import (
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/event"
)

// EventDTO 活動輸出資料
type EventDTO struct {
	EventID         string
	OrganizerID     string
	Title           string
	Description     string
	Date            time.Time
	StartsAt        time.Time
	EndsAt          time.Time
	Latitude        float64
	Longitude       float64
	Address         string
	MaxParticipants int
	RewardPoints    int
	ImageURL        string
	DistanceKm      *float64 // 只在附近活動查詢時有值
}

func toDTO(e *event.Event) EventDTO {
	return EventDTO{
		EventID:         e.EventID().String(),
		OrganizerID:     e.OrganizerID().String(),
		Title:           e.Title(),
		Description:     e.Description(),
		Date:            e.Date(),
		StartsAt:        e.StartsAt(),
		EndsAt:          e.EndsAt(),
		Latitude:        e.Location().Lat(),
		Longitude:       e.Location().Lng(),
		Address:         e.Address(),
		MaxParticipants: e.MaxParticipants(),
		RewardPoints:    e.RewardCeiling().Max().Value(),
		ImageURL:        e.ImageURL(),
	}
}
