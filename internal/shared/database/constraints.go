package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints that back the core
// invariants: one record per (event, user) and fast status aggregates.
func MigrateConstraints(db *gorm.DB) error {
	// One entrant record per (event, user). Re-joins reuse the existing
	// record, so the index is total rather than partial.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_entrant_per_event
		ON entrant_records (event_id, user_id);
	`).Error
	if err != nil {
		return err
	}

	// Status aggregates drive the capacity and waitlist-limit checks.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entrant_records_event_status
		ON entrant_records (event_id, status);
	`).Error
	if err != nil {
		return err
	}

	// The invitation-expiry sweep scans by deadline.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entrant_records_invite_deadline
		ON entrant_records (status, invite_expires_at);
	`).Error
	if err != nil {
		return err
	}

	// Ban cascade updates every event owned by one organizer.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_events_organizer_id
		ON events (organizer_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
