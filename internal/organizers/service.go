package organizers

import (
	"context"
	"time"

	"entrantly/pkg/logger"
)

// EventRegistry applies the ban cascade. Declared locally to avoid an import
// cycle with the events package, which consumes this package in turn.
type EventRegistry interface {
	PlaceOnHoldByOrganizer(ctx context.Context, organizerID string) (int64, error)
}

// Service interface defines the contract for organizer moderation
type Service interface {
	// Ban marks the organizer banned and puts all of their events ON_HOLD.
	// Idempotent: banning a banned organizer re-runs the cascade and
	// succeeds.
	Ban(ctx context.Context, organizerID string) (*BanResponse, error)

	// Unban clears the flag only. Events stay ON_HOLD until the organizer
	// reactivates each one.
	Unban(ctx context.Context, organizerID string) (*OrganizerResponse, error)

	GetOrganizer(ctx context.Context, organizerID string) (*OrganizerResponse, error)
	ListBanned(ctx context.Context) ([]OrganizerResponse, error)

	// IsBanned satisfies the gate the events package checks before
	// organizer actions.
	IsBanned(ctx context.Context, organizerID string) (bool, error)
}

type service struct {
	repo   Repository
	events EventRegistry
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new organizer service
func NewService(repo Repository, eventRegistry EventRegistry) Service {
	return &service{
		repo:   repo,
		events: eventRegistry,
		logger: logger.GetDefault(),
		now:    time.Now,
	}
}

func (s *service) Ban(ctx context.Context, organizerID string) (*BanResponse, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	if !organizer.Banned {
		t := s.now()
		organizer.Banned = true
		organizer.BannedAt = &t
		if err := s.repo.Upsert(ctx, organizer); err != nil {
			return nil, err
		}
	}

	// The cascade runs on every ban call so events created or reactivated
	// through a race still end up ON_HOLD.
	onHold, err := s.events.PlaceOnHoldByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	s.logger.LogOrganizerBanned(ctx, organizerID, int(onHold))
	return &BanResponse{OrganizerID: organizerID, Banned: true, EventsOnHold: onHold}, nil
}

func (s *service) Unban(ctx context.Context, organizerID string) (*OrganizerResponse, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	if organizer.Banned {
		organizer.Banned = false
		organizer.BannedAt = nil
		if err := s.repo.Upsert(ctx, organizer); err != nil {
			return nil, err
		}
	}

	resp := organizer.ToResponse()
	return &resp, nil
}

func (s *service) GetOrganizer(ctx context.Context, organizerID string) (*OrganizerResponse, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	resp := organizer.ToResponse()
	return &resp, nil
}

func (s *service) ListBanned(ctx context.Context) ([]OrganizerResponse, error) {
	organizers, err := s.repo.ListBanned(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]OrganizerResponse, 0, len(organizers))
	for i := range organizers {
		responses = append(responses, organizers[i].ToResponse())
	}
	return responses, nil
}

func (s *service) IsBanned(ctx context.Context, organizerID string) (bool, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		return false, err
	}
	return organizer.Banned, nil
}
