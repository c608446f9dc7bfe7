package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"entrantly/internal/entrants"
	"entrantly/internal/events"
	"entrantly/internal/notifications"
	"entrantly/internal/organizers"
	"entrantly/internal/shared/config"
	"entrantly/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Entrantly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"notification_log_entries",
		"notification_preferences",
		"entrant_records",
		"events",
		"organizers",
	}
	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll populates a small but complete data set: two organizers, three
// events at different lifecycle points, and a waiting list mid-lottery.
func (s *Seeder) SeedAll() error {
	now := time.Now()

	if err := s.db.PostgreSQL.Create(&[]organizers.Organizer{
		{ID: "org-alpha"},
		{ID: "org-banned", Banned: true, BannedAt: &now},
	}).Error; err != nil {
		return fmt.Errorf("failed to seed organizers: %w", err)
	}

	capacity := 50
	waitlistLimit := 200
	openEvent := events.Event{
		ID:                uuid.New(),
		OrganizerID:       "org-alpha",
		Name:              "Community Pottery Class",
		Description:       "Weekly beginner pottery session",
		Capacity:          &capacity,
		WaitlistLimit:     &waitlistLimit,
		RegistrationStart: now.Add(-24 * time.Hour),
		RegistrationEnd:   now.Add(7 * 24 * time.Hour),
		Status:            events.StatusActive,
	}

	smallCapacity := 2
	drawnEvent := events.Event{
		ID:                  uuid.New(),
		OrganizerID:         "org-alpha",
		Name:                "Backcountry First Aid",
		Description:         "Certification workshop, limited seats",
		Capacity:            &smallCapacity,
		RegistrationStart:   now.Add(-7 * 24 * time.Hour),
		RegistrationEnd:     now.Add(-24 * time.Hour),
		GeolocationRequired: true,
		Status:              events.StatusActive,
	}

	heldEvent := events.Event{
		ID:                uuid.New(),
		OrganizerID:       "org-banned",
		Name:              "Suspended Swim Meet",
		Description:       "Organizer is banned, event held",
		RegistrationStart: now.Add(-24 * time.Hour),
		RegistrationEnd:   now.Add(7 * 24 * time.Hour),
		Status:            events.StatusOnHold,
	}

	if err := s.db.PostgreSQL.Create(&[]events.Event{openEvent, drawnEvent, heldEvent}).Error; err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	lat, lng := 53.5461, -113.4938
	deadline := now.Add(48 * time.Hour)
	records := []entrants.EntrantRecord{
		{EventID: openEvent.ID, UserID: "device-001", Status: entrants.StatusWaiting, JoinedAt: now.Add(-3 * time.Hour)},
		{EventID: openEvent.ID, UserID: "device-002", Status: entrants.StatusWaiting, JoinedAt: now.Add(-2 * time.Hour)},
		{EventID: openEvent.ID, UserID: "device-003", Status: entrants.StatusCancelled, JoinedAt: now.Add(-1 * time.Hour), SelfInitiated: true},
		{EventID: drawnEvent.ID, UserID: "device-010", Status: entrants.StatusInvited, JoinedAt: now.Add(-48 * time.Hour), Latitude: &lat, Longitude: &lng, InvitedAt: &now, InviteExpiresAt: &deadline},
		{EventID: drawnEvent.ID, UserID: "device-011", Status: entrants.StatusAccepted, JoinedAt: now.Add(-48 * time.Hour), Latitude: &lat, Longitude: &lng, InvitedAt: &now, RespondedAt: &now},
		{EventID: drawnEvent.ID, UserID: "device-012", Status: entrants.StatusWaiting, JoinedAt: now.Add(-47 * time.Hour), Latitude: &lat, Longitude: &lng},
	}
	if err := s.db.PostgreSQL.Create(&records).Error; err != nil {
		return fmt.Errorf("failed to seed entrant records: %w", err)
	}

	if err := s.db.PostgreSQL.Create(&notifications.NotificationPreference{
		UserID:   "device-012",
		OptedOut: true,
	}).Error; err != nil {
		return fmt.Errorf("failed to seed notification preferences: %w", err)
	}

	fmt.Printf("Seeded 2 organizers, 3 events, %d entrant records\n", len(records))
	return nil
}
