package database

import (
	"entrantly/internal/entrants"
	"entrantly/internal/events"
	"entrantly/internal/notifications"
	"entrantly/internal/organizers"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&organizers.Organizer{},
		&events.Event{},
		&entrants.EntrantRecord{},
		&notifications.NotificationLogEntry{},
		&notifications.NotificationPreference{},
	)
}
