package lottery

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"entrantly/internal/entrants"
	"entrantly/internal/events"
	"entrantly/internal/shared/apperrors"
	"entrantly/pkg/logger"
)

// Service interface defines the contract for lottery operations
type Service interface {
	// Run draws from the WAITING cohort and invites the winners. It never
	// sends notifications; dispatch is a separate, explicit step.
	Run(ctx context.Context, eventID uuid.UUID, requested *int) (*RunResult, error)

	// RunForOrganizer is Run behind an ownership check, for the API surface.
	RunForOrganizer(ctx context.Context, eventID uuid.UUID, organizerID string, requested *int) (*RunResult, error)
}

// ServiceConfig controls the draw
type ServiceConfig struct {
	// InvitationWindow is how long winners have to respond.
	InvitationWindow time.Duration
	// Seed pins the rng for reproducible draws. Negative means time-seeded.
	Seed int64
}

// DefaultServiceConfig returns production draw settings
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		InvitationWindow: 48 * time.Hour,
		Seed:             -1,
	}
}

type service struct {
	pool    entrants.Repository
	events  events.Service
	config  *ServiceConfig
	logger  *logger.Logger
	newRand func() *rand.Rand
	now     func() time.Time
}

// NewService creates a new lottery service
func NewService(pool entrants.Repository, eventService events.Service, config *ServiceConfig) Service {
	if config == nil {
		config = DefaultServiceConfig()
	}
	s := &service{
		pool:   pool,
		events: eventService,
		config: config,
		logger: logger.GetDefault(),
		now:    time.Now,
	}
	s.newRand = func() *rand.Rand {
		seed := config.Seed
		if seed < 0 {
			seed = time.Now().UnixNano()
		}
		return rand.New(rand.NewSource(seed))
	}
	return s
}

func (s *service) RunForOrganizer(ctx context.Context, eventID uuid.UUID, organizerID string, requested *int) (*RunResult, error) {
	event, err := s.events.CheckOpenForSelection(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, fmt.Errorf("event %s is not owned by organizer %s", eventID, organizerID)
	}
	return s.Run(ctx, eventID, requested)
}

func (s *service) Run(ctx context.Context, eventID uuid.UUID, requested *int) (*RunResult, error) {
	// An uncached lifecycle read: a draw must see a ban cascade immediately,
	// not after the snapshot cache expires.
	event, err := s.events.CheckOpenForSelection(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if requested != nil && *requested < 1 {
		return nil, fmt.Errorf("selection count must be positive")
	}
	if requested == nil && event.Capacity == nil {
		return nil, apperrors.ErrSelectionCountRequired
	}

	result := &RunResult{EventID: eventID.String(), Invited: []string{}}
	rng := s.newRand()

	err = s.pool.WithEventLock(ctx, eventID, func(ctx context.Context) error {
		waiting, err := s.pool.ListByStatuses(ctx, eventID, []entrants.EntrantStatus{entrants.StatusWaiting})
		if err != nil {
			return err
		}

		k := len(waiting)
		if requested != nil && *requested < k {
			k = *requested
		}
		if event.Capacity != nil {
			// Seats already committed to invited or accepted entrants
			// reduce what this run may hand out.
			committed, err := s.pool.CountByStatuses(ctx, eventID, entrants.InvitedOrAccepted)
			if err != nil {
				return err
			}
			open := *event.Capacity - int(committed)
			if open < 0 {
				open = 0
			}
			if open < k {
				k = open
			}
		}

		result.RemainingWaiting = len(waiting)
		if k == 0 || len(waiting) == 0 {
			// A draw with nothing to hand out is a valid empty run.
			return nil
		}

		candidates := make([]string, 0, len(waiting))
		byUser := make(map[string]*entrants.EntrantRecord, len(waiting))
		for i := range waiting {
			candidates = append(candidates, waiting[i].UserID)
			byUser[waiting[i].UserID] = &waiting[i]
		}

		winners := Select(candidates, k, rng)
		deadline := s.now().Add(s.config.InvitationWindow)

		for _, userID := range winners {
			record := byUser[userID]
			if err := entrants.Apply(record, entrants.EventSelected, s.now()); err != nil {
				return err
			}
			record.InviteExpiresAt = &deadline
			if err := s.pool.Update(ctx, record); err != nil {
				return err
			}
			result.Invited = append(result.Invited, userID)
		}

		result.RemainingWaiting = len(waiting) - len(result.Invited)
		result.InviteExpiresAt = &deadline
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogLotteryRun(ctx, eventID.String(), len(result.Invited), result.RemainingWaiting)
	return result, nil
}
