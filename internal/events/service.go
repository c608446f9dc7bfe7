package events

import (
	"context"
	"fmt"
	"time"

	"entrantly/internal/shared/apperrors"
	"entrantly/pkg/cache"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OrganizerGate reports ban state (to avoid import cycles)
type OrganizerGate interface {
	IsBanned(ctx context.Context, organizerID string) (bool, error)
}

// Service interface defines the contract for event business operations
type Service interface {
	// Service dependency injection
	SetOrganizerGate(gate OrganizerGate)
	SetCacheService(cacheService cache.Service)

	CreateEvent(ctx context.Context, organizerID string, req *CreateEventRequest) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, organizerID string, req *UpdateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	ListEvents(ctx context.Context, status LifecycleStatus) ([]EventResponse, error)
	ListOrganizerEvents(ctx context.Context, organizerID string) ([]EventResponse, error)

	// ReactivateEvent lifts ON_HOLD back to ACTIVE. Manual and per-event:
	// unbanning an organizer never resumes events implicitly.
	ReactivateEvent(ctx context.Context, id uuid.UUID, organizerID string) error

	// CheckOpenForRegistration gates Join. It returns the event when it
	// accepts registrations, or EventNotFound / EventOnHold / EventClosed.
	CheckOpenForRegistration(ctx context.Context, id uuid.UUID) (*Event, error)

	// CheckOpenForSelection gates lottery draws. Like registration it fails
	// with EventOnHold / EventClosed, but a closed registration window does
	// not block a draw. Reads the repository, never the snapshot cache, so a
	// ban cascade takes effect immediately.
	CheckOpenForSelection(ctx context.Context, id uuid.UUID) (*Event, error)

	// PlaceOnHoldByOrganizer suspends every event owned by the organizer.
	// Ban cascade entry point; returns the number of events moved to ON_HOLD.
	PlaceOnHoldByOrganizer(ctx context.Context, organizerID string) (int64, error)
}

// service implements the Service interface
type service struct {
	repo          Repository
	organizerGate OrganizerGate
	cacheService  cache.Service
	validate      *validator.Validate
	now           func() time.Time
}

// NewService creates a new event service
func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SetOrganizerGate injects the ban-state dependency
func (s *service) SetOrganizerGate(gate OrganizerGate) {
	s.organizerGate = gate
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateEvent(ctx context.Context, organizerID string, req *CreateEventRequest) (*EventResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid create request: %w", err)
	}
	if !req.RegistrationEnd.After(req.RegistrationStart) {
		return nil, fmt.Errorf("registration window must end after it starts")
	}
	if organizerID == "" {
		return nil, fmt.Errorf("organizer id is required")
	}

	if s.organizerGate != nil {
		banned, err := s.organizerGate.IsBanned(ctx, organizerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check organizer: %w", err)
		}
		if banned {
			return nil, apperrors.ErrOrganizerBanned
		}
	}

	event := &Event{
		OrganizerID:         organizerID,
		Name:                req.Name,
		Description:         req.Description,
		Capacity:            req.Capacity,
		WaitlistLimit:       req.WaitlistLimit,
		RegistrationStart:   req.RegistrationStart,
		RegistrationEnd:     req.RegistrationEnd,
		GeolocationRequired: req.GeolocationRequired,
		Status:              StatusActive,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, organizerID string, req *UpdateEventRequest) (*EventResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid update request: %w", err)
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, fmt.Errorf("event %s is not owned by organizer %s", id, organizerID)
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Capacity != nil {
		event.Capacity = req.Capacity
	}
	if req.WaitlistLimit != nil {
		event.WaitlistLimit = req.WaitlistLimit
	}
	if req.RegistrationStart != nil {
		event.RegistrationStart = *req.RegistrationStart
	}
	if req.RegistrationEnd != nil {
		event.RegistrationEnd = *req.RegistrationEnd
	}
	if req.GeolocationRequired != nil {
		event.GeolocationRequired = *req.GeolocationRequired
	}
	if !event.RegistrationEnd.After(event.RegistrationStart) {
		return nil, fmt.Errorf("registration window must end after it starts")
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, id)

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	var resp EventResponse

	if s.cacheService != nil {
		err := s.cacheService.GetOrSet(ctx, GetCacheKey(id), 5*time.Minute, func() (interface{}, error) {
			event, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return event.ToResponse(), nil
		}, &resp)
		if err != nil {
			if event, repoErr := s.repo.GetByID(ctx, id); repoErr == nil {
				r := event.ToResponse()
				return &r, nil
			}
			return nil, err
		}
		return &resp, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp = event.ToResponse()
	return &resp, nil
}

func (s *service) ListEvents(ctx context.Context, status LifecycleStatus) ([]EventResponse, error) {
	events, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	return toResponses(events), nil
}

func (s *service) ListOrganizerEvents(ctx context.Context, organizerID string) ([]EventResponse, error) {
	events, err := s.repo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	return toResponses(events), nil
}

func (s *service) ReactivateEvent(ctx context.Context, id uuid.UUID, organizerID string) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return fmt.Errorf("event %s is not owned by organizer %s", id, organizerID)
	}

	if s.organizerGate != nil {
		banned, err := s.organizerGate.IsBanned(ctx, organizerID)
		if err != nil {
			return fmt.Errorf("failed to check organizer: %w", err)
		}
		if banned {
			return apperrors.ErrOrganizerBanned
		}
	}

	if event.Status == StatusActive {
		return nil // already active, reactivation is idempotent
	}
	if !event.Status.CanTransitionTo(StatusActive) {
		return fmt.Errorf("cannot reactivate event in status %s", event.Status)
	}

	if err := s.repo.SetLifecycle(ctx, id, StatusActive); err != nil {
		return err
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *service) CheckOpenForRegistration(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, err := s.CheckOpenForSelection(ctx, id)
	if err != nil {
		return nil, err
	}

	// An ACTIVE event outside its registration window counts as closed.
	if !event.RegistrationOpenAt(s.now()) {
		return nil, apperrors.ErrEventClosed
	}

	return event, nil
}

func (s *service) CheckOpenForSelection(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch event.Status {
	case StatusOnHold:
		return nil, apperrors.ErrEventOnHold
	case StatusClosed:
		return nil, apperrors.ErrEventClosed
	}

	return event, nil
}

func (s *service) PlaceOnHoldByOrganizer(ctx context.Context, organizerID string) (int64, error) {
	held, err := s.repo.SetLifecycleByOrganizer(ctx, organizerID, StatusOnHold)
	if err != nil {
		return 0, err
	}

	// Invalidate snapshots only after the bulk write: a read racing an
	// earlier invalidation would repopulate the cache with ACTIVE copies.
	if s.cacheService != nil {
		if events, listErr := s.repo.ListByOrganizer(ctx, organizerID); listErr == nil {
			for i := range events {
				s.invalidateCache(ctx, events[i].ID)
			}
		}
	}
	return held, nil
}

func (s *service) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, GetCacheKey(id))
}

func toResponses(events []Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	return responses
}
