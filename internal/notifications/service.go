package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"entrantly/internal/entrants"
	"entrantly/internal/events"
	"entrantly/pkg/logger"
)

// Service interface defines the contract for notification operations
type Service interface {
	// SendToCohort fans a message out to every entrant of the event whose
	// status matches the filter. Opted-out recipients are skipped, failed
	// deliveries do not stop the batch, and every attempt or skip leaves a
	// log entry.
	SendToCohort(ctx context.Context, eventID uuid.UUID, organizerID string, req *DispatchRequest) (*DispatchResult, error)

	GetPreference(ctx context.Context, userID string) (*PreferenceResponse, error)
	SetPreference(ctx context.Context, userID string, optedOut bool) (*PreferenceResponse, error)

	ListLog(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]LogEntryResponse, error)
}

type service struct {
	repo     Repository
	entrants entrants.Repository
	events   events.Service
	channel  DeliveryChannel
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new notification service
func NewService(repo Repository, entrantRepo entrants.Repository, eventService events.Service, channel DeliveryChannel) Service {
	return &service{
		repo:     repo,
		entrants: entrantRepo,
		events:   eventService,
		channel:  channel,
		validate: validator.New(),
		logger:   logger.GetDefault(),
		now:      time.Now,
	}
}

func (s *service) SendToCohort(ctx context.Context, eventID uuid.UUID, organizerID string, req *DispatchRequest) (*DispatchResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid dispatch request: %w", err)
	}

	statuses := make([]entrants.EntrantStatus, 0, len(req.Statuses))
	for _, raw := range req.Statuses {
		status := entrants.EntrantStatus(raw)
		if !status.IsValid() {
			return nil, fmt.Errorf("invalid entrant status: %s", raw)
		}
		statuses = append(statuses, status)
	}

	// A missing event fails the whole batch; per-recipient problems do not.
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, fmt.Errorf("event %s is not owned by organizer %s", eventID, organizerID)
	}

	recipients, err := s.entrants.ListByStatuses(ctx, eventID, statuses)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{EventID: eventID.String(), Skipped: []SkippedRecipient{}}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range recipients {
		wg.Add(1)
		go func(recipient *entrants.EntrantRecord) {
			defer wg.Done()
			s.dispatchOne(ctx, recipient, req.Message, result, &mu)
		}(&recipients[i])
	}
	wg.Wait()

	s.logger.LogNotificationBatch(ctx, eventID.String(), result.Sent, len(result.Skipped), result.Failed)
	return result, nil
}

// dispatchOne delivers to a single recipient and writes the log entry for
// the attempt. The entry is created after the attempt and never touched
// again.
func (s *service) dispatchOne(ctx context.Context, recipient *entrants.EntrantRecord, message string, result *DispatchResult, mu *sync.Mutex) {
	entry := &NotificationLogEntry{
		EventID:      recipient.EventID,
		UserID:       recipient.UserID,
		StatusAtSend: recipient.Status,
		Message:      message,
		SentAt:       s.now(),
	}

	pref, err := s.repo.GetPreference(ctx, recipient.UserID)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "failed to read notification preference", err, map[string]interface{}{
			"user_id": recipient.UserID,
		})
		mu.Lock()
		result.Failed++
		mu.Unlock()
		return
	}

	if pref.OptedOut {
		reason := SkipReasonOptedOut
		entry.Delivered = false
		entry.SkippedReason = &reason
		s.persistEntry(ctx, entry)
		mu.Lock()
		result.Skipped = append(result.Skipped, SkippedRecipient{UserID: recipient.UserID, Reason: reason})
		mu.Unlock()
		return
	}

	deliverErr := s.channel.Deliver(ctx, entry)
	entry.Delivered = deliverErr == nil
	s.persistEntry(ctx, entry)

	mu.Lock()
	defer mu.Unlock()
	if deliverErr != nil {
		s.logger.ErrorWithContext(ctx, "notification delivery failed", deliverErr, map[string]interface{}{
			"event_id": recipient.EventID.String(),
			"user_id":  recipient.UserID,
		})
		result.Failed++
		return
	}
	result.Sent++
}

func (s *service) persistEntry(ctx context.Context, entry *NotificationLogEntry) {
	if err := s.repo.CreateLogEntry(ctx, entry); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to persist notification log entry", err, map[string]interface{}{
			"event_id": entry.EventID.String(),
			"user_id":  entry.UserID,
		})
	}
}

func (s *service) GetPreference(ctx context.Context, userID string) (*PreferenceResponse, error) {
	pref, err := s.repo.GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PreferenceResponse{UserID: pref.UserID, OptedOut: pref.OptedOut}, nil
}

func (s *service) SetPreference(ctx context.Context, userID string, optedOut bool) (*PreferenceResponse, error) {
	pref := &NotificationPreference{UserID: userID, OptedOut: optedOut}
	if err := s.repo.UpsertPreference(ctx, pref); err != nil {
		return nil, err
	}
	return &PreferenceResponse{UserID: userID, OptedOut: optedOut}, nil
}

func (s *service) ListLog(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]LogEntryResponse, error) {
	if _, err := s.events.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListLogEntries(ctx, eventID, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]LogEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, entries[i].ToResponse())
	}
	return responses, nil
}
