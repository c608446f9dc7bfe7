package entrants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"entrantly/internal/events"
	"entrantly/internal/shared/apperrors"
	"entrantly/pkg/logger"
)

// ReplacementTrigger is implemented by the lottery package. Declared locally
// to avoid an import cycle (lottery imports entrants).
type ReplacementTrigger interface {
	// HandleWithdrawal backfills after a decline or expiry freed a slot.
	HandleWithdrawal(ctx context.Context, eventID uuid.UUID, withdrawnUserID string)
}

// Service interface defines the contract for entrant waiting-list operations
type Service interface {
	// Service dependency injection
	SetReplacementTrigger(trigger ReplacementTrigger)

	Join(ctx context.Context, eventID uuid.UUID, userID string, req *JoinWaitlistRequest) (*EntrantResponse, error)
	Leave(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error)
	Accept(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error)
	Decline(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error)

	GetStatus(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error)
	ListByStatus(ctx context.Context, eventID uuid.UUID, status EntrantStatus) ([]EntrantResponse, error)
	CohortCounts(ctx context.Context, eventID uuid.UUID) (*CohortCountsResponse, error)

	// CancelWaitingCohort cancels every WAITING entrant of the event. Used by
	// organizers clearing out entrants who never responded to anything.
	CancelWaitingCohort(ctx context.Context, eventID uuid.UUID, organizerID string) (*CancelCohortResponse, error)
}

type service struct {
	repo        Repository
	events      events.Service
	replacement ReplacementTrigger
	validate    *validator.Validate
	logger      *logger.Logger
	now         func() time.Time
}

// NewService creates a new entrant service
func NewService(repo Repository, eventService events.Service) Service {
	return &service{
		repo:     repo,
		events:   eventService,
		validate: validator.New(),
		logger:   logger.GetDefault(),
		now:      time.Now,
	}
}

// SetReplacementTrigger injects the backfill dependency
func (s *service) SetReplacementTrigger(trigger ReplacementTrigger) {
	s.replacement = trigger
}

func (s *service) Join(ctx context.Context, eventID uuid.UUID, userID string, req *JoinWaitlistRequest) (*EntrantResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if req == nil {
		req = &JoinWaitlistRequest{}
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid join request: %w", err)
	}

	event, err := s.events.CheckOpenForRegistration(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.GeolocationRequired && !req.HasLocation() {
		return nil, apperrors.ErrMissingLocation
	}

	var resp EntrantResponse
	err = s.repo.WithEventLock(ctx, eventID, func(ctx context.Context) error {
		existing, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
		if err != nil && !errors.Is(err, apperrors.ErrNotOnWaitingList) {
			return err
		}

		if existing != nil && existing.Status != StatusCancelled {
			return apperrors.ErrAlreadyJoined
		}

		if event.WaitlistLimit != nil {
			occupied, err := s.repo.CountByStatuses(ctx, eventID, ActiveStatuses)
			if err != nil {
				return err
			}
			if occupied >= int64(*event.WaitlistLimit) {
				return apperrors.ErrWaitlistFull
			}
		}

		if existing != nil {
			// Re-join after a cancellation reuses the record, preserving one
			// record per (event, user).
			if err := Apply(existing, EventRejoin, s.now()); err != nil {
				return err
			}
			existing.Latitude = req.Latitude
			existing.Longitude = req.Longitude
			if err := s.repo.Update(ctx, existing); err != nil {
				return err
			}
			resp = existing.ToResponse()
			return nil
		}

		record := &EntrantRecord{
			EventID:   eventID,
			UserID:    userID,
			Status:    StatusWaiting,
			JoinedAt:  s.now(),
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return err
		}
		resp = record.ToResponse()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogEntrantJoined(ctx, eventID.String(), userID)
	return &resp, nil
}

func (s *service) Leave(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error) {
	resp, err := s.transition(ctx, eventID, userID, EventSelfLeave, func(record *EntrantRecord) error {
		if record.Status != StatusWaiting {
			return apperrors.ErrNotOnWaitingList
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.LogEntrantLeft(ctx, eventID.String(), userID)
	return resp, nil
}

func (s *service) Accept(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error) {
	return s.transition(ctx, eventID, userID, EventAccept, s.guardInviteFresh)
}

func (s *service) Decline(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error) {
	resp, err := s.transition(ctx, eventID, userID, EventDecline, s.guardInviteFresh)
	if err != nil {
		return nil, err
	}

	// Backfill runs after the event lock is released; the draw takes the
	// same lock.
	if s.replacement != nil {
		s.replacement.HandleWithdrawal(ctx, eventID, userID)
	}
	return resp, nil
}

// guardInviteFresh rejects a response to an invitation whose window already
// elapsed, even if the expiry sweep has not caught up yet.
func (s *service) guardInviteFresh(record *EntrantRecord) error {
	if record.InviteExpired(s.now()) {
		return &apperrors.InvalidTransitionError{From: string(record.Status), Event: "respond"}
	}
	return nil
}

// transition applies one state-machine event to the (event, user) record
// under the event lock. guard runs before Apply and may reject the record.
func (s *service) transition(ctx context.Context, eventID uuid.UUID, userID string, ev TransitionEvent, guard func(*EntrantRecord) error) (*EntrantResponse, error) {
	var resp EntrantResponse
	err := s.repo.WithEventLock(ctx, eventID, func(ctx context.Context) error {
		record, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(record); err != nil {
				return err
			}
		}
		if err := Apply(record, ev, s.now()); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, record); err != nil {
			return err
		}
		resp = record.ToResponse()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) GetStatus(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantResponse, error) {
	record, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	resp := record.ToResponse()
	return &resp, nil
}

func (s *service) ListByStatus(ctx context.Context, eventID uuid.UUID, status EntrantStatus) ([]EntrantResponse, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid entrant status: %s", status)
	}
	records, err := s.repo.ListByStatuses(ctx, eventID, []EntrantStatus{status})
	if err != nil {
		return nil, err
	}
	responses := make([]EntrantResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].ToResponse())
	}
	return responses, nil
}

func (s *service) CohortCounts(ctx context.Context, eventID uuid.UUID) (*CohortCountsResponse, error) {
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	counts := &CohortCountsResponse{EventID: eventID.String()}
	for _, status := range []EntrantStatus{StatusWaiting, StatusInvited, StatusAccepted, StatusDeclined, StatusUninvited, StatusCancelled} {
		n, err := s.repo.CountByStatuses(ctx, eventID, []EntrantStatus{status})
		if err != nil {
			return nil, err
		}
		switch status {
		case StatusWaiting:
			counts.Waiting = int(n)
		case StatusInvited:
			counts.Invited = int(n)
		case StatusAccepted:
			counts.Accepted = int(n)
		case StatusDeclined:
			counts.Declined = int(n)
		case StatusUninvited:
			counts.Uninvited = int(n)
		case StatusCancelled:
			counts.Cancelled = int(n)
		}
	}
	return counts, nil
}

func (s *service) CancelWaitingCohort(ctx context.Context, eventID uuid.UUID, organizerID string) (*CancelCohortResponse, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, fmt.Errorf("event %s is not owned by organizer %s", eventID, organizerID)
	}

	cancelled := 0
	err = s.repo.WithEventLock(ctx, eventID, func(ctx context.Context) error {
		waiting, err := s.repo.ListByStatuses(ctx, eventID, []EntrantStatus{StatusWaiting})
		if err != nil {
			return err
		}
		for i := range waiting {
			record := &waiting[i]
			if err := Apply(record, EventOrganizerCancel, s.now()); err != nil {
				return err
			}
			if err := s.repo.Update(ctx, record); err != nil {
				return err
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoWithContext(ctx, "waiting cohort cancelled", map[string]interface{}{
		"event_id":  eventID.String(),
		"cancelled": cancelled,
	})
	return &CancelCohortResponse{EventID: eventID.String(), Cancelled: cancelled}, nil
}
