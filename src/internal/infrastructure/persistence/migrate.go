package persistence

import (
	"fmt"

	checkinrepo "github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/checkin"
	eventrepo "github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/event"
	participantrepo "github.com/jackyeh168/green_events/src/internal/infrastructure/persistence/participant"
	"gorm.io/gorm"
)

// AutoMigrate 建立或更新所有資料表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&participantrepo.ParticipantGORM{},
		&eventrepo.EventGORM{},
		&checkinrepo.RegistrationGORM{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
