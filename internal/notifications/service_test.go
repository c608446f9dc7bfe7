package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrantly/internal/entrants"
	"entrantly/internal/events"
	"entrantly/internal/shared/apperrors"
	"entrantly/pkg/cache"
)

type mockNotifRepo struct {
	mu      sync.Mutex
	entries []NotificationLogEntry
	prefs   map[string]bool
}

func newMockNotifRepo() *mockNotifRepo {
	return &mockNotifRepo{prefs: make(map[string]bool)}
}

func (m *mockNotifRepo) CreateLogEntry(ctx context.Context, entry *NotificationLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockNotifRepo) ListLogEntries(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]NotificationLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []NotificationLogEntry
	for _, entry := range m.entries {
		if entry.EventID == eventID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockNotifRepo) GetPreference(ctx context.Context, userID string) (*NotificationPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &NotificationPreference{UserID: userID, OptedOut: m.prefs[userID]}, nil
}

func (m *mockNotifRepo) UpsertPreference(ctx context.Context, pref *NotificationPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[pref.UserID] = pref.OptedOut
	return nil
}

func (m *mockNotifRepo) entryFor(userID string) *NotificationLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].UserID == userID {
			return &m.entries[i]
		}
	}
	return nil
}

// mockChannel records deliveries and can fail selected recipients.
type mockChannel struct {
	mu        sync.Mutex
	delivered []string
	failFor   map[string]bool
}

func newMockChannel() *mockChannel {
	return &mockChannel{failFor: make(map[string]bool)}
}

func (m *mockChannel) Deliver(ctx context.Context, entry *NotificationLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[entry.UserID] {
		return errors.New("broker unreachable")
	}
	m.delivered = append(m.delivered, entry.UserID)
	return nil
}

func (m *mockChannel) Close() error { return nil }

// mockCohortRepo serves fixed entrant records; only ListByStatuses matters
// for dispatch.
type mockCohortRepo struct {
	records []entrants.EntrantRecord
}

func (m *mockCohortRepo) WithEventLock(ctx context.Context, eventID uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (m *mockCohortRepo) Create(ctx context.Context, record *entrants.EntrantRecord) error { return nil }
func (m *mockCohortRepo) Update(ctx context.Context, record *entrants.EntrantRecord) error { return nil }
func (m *mockCohortRepo) GetByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*entrants.EntrantRecord, error) {
	return nil, apperrors.ErrNotOnWaitingList
}
func (m *mockCohortRepo) ListByStatuses(ctx context.Context, eventID uuid.UUID, statuses []entrants.EntrantStatus) ([]entrants.EntrantRecord, error) {
	var out []entrants.EntrantRecord
	for _, record := range m.records {
		if record.EventID != eventID {
			continue
		}
		for _, status := range statuses {
			if record.Status == status {
				out = append(out, record)
				break
			}
		}
	}
	return out, nil
}
func (m *mockCohortRepo) CountByStatuses(ctx context.Context, eventID uuid.UUID, statuses []entrants.EntrantStatus) (int64, error) {
	records, _ := m.ListByStatuses(ctx, eventID, statuses)
	return int64(len(records)), nil
}
func (m *mockCohortRepo) ListExpiredInvitations(ctx context.Context, cutoff time.Time, limit int) ([]entrants.EntrantRecord, error) {
	return nil, nil
}

type mockEventService struct {
	event *events.Event
}

func (m *mockEventService) SetOrganizerGate(gate events.OrganizerGate)  {}
func (m *mockEventService) SetCacheService(cacheService cache.Service) {}
func (m *mockEventService) CreateEvent(ctx context.Context, organizerID string, req *events.CreateEventRequest) (*events.EventResponse, error) {
	return nil, nil
}
func (m *mockEventService) UpdateEvent(ctx context.Context, id uuid.UUID, organizerID string, req *events.UpdateEventRequest) (*events.EventResponse, error) {
	return nil, nil
}
func (m *mockEventService) GetEvent(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	if m.event == nil || m.event.ID != id {
		return nil, apperrors.ErrEventNotFound
	}
	resp := m.event.ToResponse()
	return &resp, nil
}
func (m *mockEventService) ListEvents(ctx context.Context, status events.LifecycleStatus) ([]events.EventResponse, error) {
	return nil, nil
}
func (m *mockEventService) ListOrganizerEvents(ctx context.Context, organizerID string) ([]events.EventResponse, error) {
	return nil, nil
}
func (m *mockEventService) ReactivateEvent(ctx context.Context, id uuid.UUID, organizerID string) error {
	return nil
}
func (m *mockEventService) CheckOpenForRegistration(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	return m.event, nil
}
func (m *mockEventService) CheckOpenForSelection(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	return m.event, nil
}
func (m *mockEventService) PlaceOnHoldByOrganizer(ctx context.Context, organizerID string) (int64, error) {
	return 0, nil
}

func testEvent() *events.Event {
	now := time.Now()
	return &events.Event{
		ID:                uuid.New(),
		OrganizerID:       "org-1",
		Name:              "Dispatch Test",
		RegistrationStart: now.Add(-time.Hour),
		RegistrationEnd:   now.Add(time.Hour),
		Status:            events.StatusActive,
	}
}

func cohort(eventID uuid.UUID, status entrants.EntrantStatus, userIDs ...string) []entrants.EntrantRecord {
	records := make([]entrants.EntrantRecord, 0, len(userIDs))
	for _, userID := range userIDs {
		records = append(records, entrants.EntrantRecord{
			ID: uuid.New(), EventID: eventID, UserID: userID,
			Status: status, JoinedAt: time.Now(),
		})
	}
	return records
}

func TestSendToCohort(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to every matching entrant and logs each attempt", func(t *testing.T) {
		event := testEvent()
		repo := newMockNotifRepo()
		channel := newMockChannel()
		pool := &mockCohortRepo{records: cohort(event.ID, entrants.StatusWaiting, "a", "b", "c")}
		svc := NewService(repo, pool, &mockEventService{event: event}, channel)

		result, err := svc.SendToCohort(ctx, event.ID, "org-1", &DispatchRequest{
			Statuses: []string{"WAITING"},
			Message:  "lottery runs tonight",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Sent)
		assert.Equal(t, 0, result.Failed)
		assert.Empty(t, result.Skipped)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, channel.delivered)

		entry := repo.entryFor("a")
		require.NotNil(t, entry)
		assert.True(t, entry.Delivered)
		assert.Equal(t, entrants.StatusWaiting, entry.StatusAtSend)
		assert.Equal(t, "lottery runs tonight", entry.Message)
		assert.Nil(t, entry.SkippedReason)
	})

	t.Run("status filter selects the cohort", func(t *testing.T) {
		event := testEvent()
		records := append(
			cohort(event.ID, entrants.StatusInvited, "winner"),
			cohort(event.ID, entrants.StatusWaiting, "still-waiting")...,
		)
		repo := newMockNotifRepo()
		channel := newMockChannel()
		svc := NewService(repo, &mockCohortRepo{records: records}, &mockEventService{event: event}, channel)

		result, err := svc.SendToCohort(ctx, event.ID, "org-1", &DispatchRequest{
			Statuses: []string{"INVITED"},
			Message:  "you are invited",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, []string{"winner"}, channel.delivered)
	})

	t.Run("opted-out recipients are skipped with a logged reason", func(t *testing.T) {
		event := testEvent()
		repo := newMockNotifRepo()
		repo.prefs["quiet"] = true
		channel := newMockChannel()
		pool := &mockCohortRepo{records: cohort(event.ID, entrants.StatusWaiting, "quiet", "loud")}
		svc := NewService(repo, pool, &mockEventService{event: event}, channel)

		result, err := svc.SendToCohort(ctx, event.ID, "org-1", &DispatchRequest{
			Statuses: []string{"WAITING"},
			Message:  "hello",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, "quiet", result.Skipped[0].UserID)
		assert.Equal(t, SkipReasonOptedOut, result.Skipped[0].Reason)
		assert.NotContains(t, channel.delivered, "quiet")

		entry := repo.entryFor("quiet")
		require.NotNil(t, entry)
		assert.False(t, entry.Delivered)
		require.NotNil(t, entry.SkippedReason)
		assert.Equal(t, SkipReasonOptedOut, *entry.SkippedReason)
	})

	t.Run("one failed delivery does not stop the batch", func(t *testing.T) {
		event := testEvent()
		repo := newMockNotifRepo()
		channel := newMockChannel()
		channel.failFor["b"] = true
		pool := &mockCohortRepo{records: cohort(event.ID, entrants.StatusWaiting, "a", "b", "c")}
		svc := NewService(repo, pool, &mockEventService{event: event}, channel)

		result, err := svc.SendToCohort(ctx, event.ID, "org-1", &DispatchRequest{
			Statuses: []string{"WAITING"},
			Message:  "hello",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Sent)
		assert.Equal(t, 1, result.Failed)

		entry := repo.entryFor("b")
		require.NotNil(t, entry)
		assert.False(t, entry.Delivered)
		assert.Nil(t, entry.SkippedReason, "a failure is not a skip")
	})

	t.Run("unknown event fails the whole batch", func(t *testing.T) {
		svc := NewService(newMockNotifRepo(), &mockCohortRepo{}, &mockEventService{}, newMockChannel())
		_, err := svc.SendToCohort(ctx, uuid.New(), "org-1", &DispatchRequest{
			Statuses: []string{"WAITING"},
			Message:  "hello",
		})
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})

	t.Run("non-owner cannot dispatch", func(t *testing.T) {
		event := testEvent()
		svc := NewService(newMockNotifRepo(), &mockCohortRepo{}, &mockEventService{event: event}, newMockChannel())
		_, err := svc.SendToCohort(ctx, event.ID, "someone-else", &DispatchRequest{
			Statuses: []string{"WAITING"},
			Message:  "hello",
		})
		assert.Error(t, err)
	})

	t.Run("invalid status filter is rejected", func(t *testing.T) {
		event := testEvent()
		svc := NewService(newMockNotifRepo(), &mockCohortRepo{}, &mockEventService{event: event}, newMockChannel())
		_, err := svc.SendToCohort(ctx, event.ID, "org-1", &DispatchRequest{
			Statuses: []string{"SLEEPING"},
			Message:  "hello",
		})
		assert.Error(t, err)
	})
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockNotifRepo(), &mockCohortRepo{}, &mockEventService{}, newMockChannel())

	pref, err := svc.GetPreference(ctx, "device-1")
	require.NoError(t, err)
	assert.False(t, pref.OptedOut, "default is opted in")

	pref, err = svc.SetPreference(ctx, "device-1", true)
	require.NoError(t, err)
	assert.True(t, pref.OptedOut)

	pref, err = svc.GetPreference(ctx, "device-1")
	require.NoError(t, err)
	assert.True(t, pref.OptedOut)
}

func TestListLog(t *testing.T) {
	ctx := context.Background()
	event := testEvent()
	repo := newMockNotifRepo()
	channel := newMockChannel()
	pool := &mockCohortRepo{records: cohort(event.ID, entrants.StatusWaiting, "a")}
	svc := NewService(repo, pool, &mockEventService{event: event}, channel)

	_, err := svc.SendToCohort(ctx, event.ID, "org-1", &DispatchRequest{
		Statuses: []string{"WAITING"},
		Message:  "hello",
	})
	require.NoError(t, err)

	entries, err := svc.ListLog(ctx, event.ID, 100, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].UserID)

	_, err = svc.ListLog(ctx, uuid.New(), 100, 0)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}
