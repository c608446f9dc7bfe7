package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrantly/internal/shared/apperrors"
	"entrantly/pkg/cache"
)

type mockEventRepo struct {
	events map[uuid.UUID]*Event
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[uuid.UUID]*Event)}
}

func (m *mockEventRepo) Create(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	copied := *event
	m.events[event.ID] = &copied
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *Event) error {
	copied := *event
	m.events[event.ID] = &copied
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (m *mockEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error) {
	var out []Event
	for _, event := range m.events {
		if event.OrganizerID == organizerID {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (m *mockEventRepo) List(ctx context.Context, status LifecycleStatus) ([]Event, error) {
	var out []Event
	for _, event := range m.events {
		if status == "" || event.Status == status {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (m *mockEventRepo) SetLifecycle(ctx context.Context, id uuid.UUID, status LifecycleStatus) error {
	event, ok := m.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	event.Status = status
	return nil
}

func (m *mockEventRepo) SetLifecycleByOrganizer(ctx context.Context, organizerID string, status LifecycleStatus) (int64, error) {
	var n int64
	for _, event := range m.events {
		if event.OrganizerID == organizerID && event.Status != status {
			event.Status = status
			n++
		}
	}
	return n, nil
}

// memoryCache is an in-process cache.Service. Deletions append to ops when
// it is set, so tests can assert ordering against repository writes.
type memoryCache struct {
	entries map[string][]byte
	ops     *[]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
		if c.ops != nil {
			*c.ops = append(*c.ops, "invalidate")
		}
	}
	return nil
}

func (c *memoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

// orderedRepo records bulk lifecycle writes into the shared ops log.
type orderedRepo struct {
	*mockEventRepo
	ops *[]string
}

func (r *orderedRepo) SetLifecycleByOrganizer(ctx context.Context, organizerID string, status LifecycleStatus) (int64, error) {
	*r.ops = append(*r.ops, "bulk write")
	return r.mockEventRepo.SetLifecycleByOrganizer(ctx, organizerID, status)
}

type mockGate struct {
	banned map[string]bool
}

func (m *mockGate) IsBanned(ctx context.Context, organizerID string) (bool, error) {
	return m.banned[organizerID], nil
}

func validCreateRequest() *CreateEventRequest {
	now := time.Now()
	capacity := 10
	return &CreateEventRequest{
		Name:              "Pottery Night",
		Description:       "hands on",
		Capacity:          &capacity,
		RegistrationStart: now.Add(-time.Hour),
		RegistrationEnd:   now.Add(time.Hour),
	}
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active event", func(t *testing.T) {
		repo := newMockEventRepo()
		svc := NewService(repo)

		resp, err := svc.CreateEvent(ctx, "org-1", validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, StatusActive, resp.Status)
		assert.Equal(t, "org-1", resp.OrganizerID)
	})

	t.Run("rejects a banned organizer", func(t *testing.T) {
		svc := NewService(newMockEventRepo())
		svc.SetOrganizerGate(&mockGate{banned: map[string]bool{"org-1": true}})

		_, err := svc.CreateEvent(ctx, "org-1", validCreateRequest())
		assert.ErrorIs(t, err, apperrors.ErrOrganizerBanned)
	})

	t.Run("rejects an inverted registration window", func(t *testing.T) {
		svc := NewService(newMockEventRepo())
		req := validCreateRequest()
		req.RegistrationEnd = req.RegistrationStart.Add(-time.Minute)

		_, err := svc.CreateEvent(ctx, "org-1", req)
		assert.Error(t, err)
	})
}

func TestCheckOpenForRegistration(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	build := func(status LifecycleStatus, start, end time.Time) (*service, uuid.UUID) {
		repo := newMockEventRepo()
		event := &Event{
			ID: uuid.New(), OrganizerID: "org-1", Name: "E",
			RegistrationStart: start, RegistrationEnd: end, Status: status,
		}
		require.NoError(t, repo.Create(ctx, event))
		return NewService(repo).(*service), event.ID
	}

	t.Run("open", func(t *testing.T) {
		svc, id := build(StatusActive, now.Add(-time.Hour), now.Add(time.Hour))
		event, err := svc.CheckOpenForRegistration(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, event.ID)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _ := build(StatusActive, now.Add(-time.Hour), now.Add(time.Hour))
		_, err := svc.CheckOpenForRegistration(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})

	t.Run("on hold", func(t *testing.T) {
		svc, id := build(StatusOnHold, now.Add(-time.Hour), now.Add(time.Hour))
		_, err := svc.CheckOpenForRegistration(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrEventOnHold)
	})

	t.Run("closed", func(t *testing.T) {
		svc, id := build(StatusClosed, now.Add(-time.Hour), now.Add(time.Hour))
		_, err := svc.CheckOpenForRegistration(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrEventClosed)
	})

	t.Run("active before the window counts as closed", func(t *testing.T) {
		svc, id := build(StatusActive, now.Add(time.Hour), now.Add(2*time.Hour))
		_, err := svc.CheckOpenForRegistration(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrEventClosed)
	})

	t.Run("active after the window counts as closed", func(t *testing.T) {
		svc, id := build(StatusActive, now.Add(-2*time.Hour), now.Add(-time.Hour))
		_, err := svc.CheckOpenForRegistration(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrEventClosed)
	})
}

func TestReactivateEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	seed := func(status LifecycleStatus) (*mockEventRepo, Service, uuid.UUID) {
		repo := newMockEventRepo()
		event := &Event{
			ID: uuid.New(), OrganizerID: "org-1", Name: "E",
			RegistrationStart: now.Add(-time.Hour), RegistrationEnd: now.Add(time.Hour),
			Status: status,
		}
		require.NoError(t, repo.Create(ctx, event))
		return repo, NewService(repo), event.ID
	}

	t.Run("lifts on hold back to active", func(t *testing.T) {
		repo, svc, id := seed(StatusOnHold)
		require.NoError(t, svc.ReactivateEvent(ctx, id, "org-1"))
		assert.Equal(t, StatusActive, repo.events[id].Status)
	})

	t.Run("idempotent on an active event", func(t *testing.T) {
		_, svc, id := seed(StatusActive)
		assert.NoError(t, svc.ReactivateEvent(ctx, id, "org-1"))
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		_, svc, id := seed(StatusOnHold)
		assert.Error(t, svc.ReactivateEvent(ctx, id, "someone-else"))
	})

	t.Run("rejects a banned organizer", func(t *testing.T) {
		_, svc, id := seed(StatusOnHold)
		svc.SetOrganizerGate(&mockGate{banned: map[string]bool{"org-1": true}})
		assert.ErrorIs(t, svc.ReactivateEvent(ctx, id, "org-1"), apperrors.ErrOrganizerBanned)
	})

	t.Run("closed events stay closed", func(t *testing.T) {
		repo, svc, id := seed(StatusClosed)
		assert.Error(t, svc.ReactivateEvent(ctx, id, "org-1"))
		assert.Equal(t, StatusClosed, repo.events[id].Status)
	})
}

func TestPlaceOnHoldByOrganizer(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("cascades every owned event", func(t *testing.T) {
		repo := newMockEventRepo()
		svc := NewService(repo)

		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Create(ctx, &Event{
				ID: uuid.New(), OrganizerID: "org-1", Name: "E",
				RegistrationStart: now, RegistrationEnd: now.Add(time.Hour),
				Status: StatusActive,
			}))
		}
		require.NoError(t, repo.Create(ctx, &Event{
			ID: uuid.New(), OrganizerID: "org-2", Name: "Other",
			RegistrationStart: now, RegistrationEnd: now.Add(time.Hour),
			Status: StatusActive,
		}))

		held, err := svc.PlaceOnHoldByOrganizer(ctx, "org-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), held)

		for _, event := range repo.events {
			if event.OrganizerID == "org-1" {
				assert.Equal(t, StatusOnHold, event.Status)
			} else {
				assert.Equal(t, StatusActive, event.Status)
			}
		}
	})

	t.Run("invalidates snapshots after the bulk write", func(t *testing.T) {
		repo := newMockEventRepo()
		event := &Event{
			ID: uuid.New(), OrganizerID: "org-1", Name: "E",
			RegistrationStart: now, RegistrationEnd: now.Add(time.Hour),
			Status: StatusActive,
		}
		require.NoError(t, repo.Create(ctx, event))

		var ops []string
		cacheSvc := newMemoryCache()
		cacheSvc.ops = &ops
		svc := NewService(&orderedRepo{mockEventRepo: repo, ops: &ops})
		svc.SetCacheService(cacheSvc)

		// Warm the snapshot cache with the ACTIVE copy.
		resp, err := svc.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Equal(t, StatusActive, resp.Status)

		held, err := svc.PlaceOnHoldByOrganizer(ctx, "org-1")
		require.NoError(t, err)
		require.Equal(t, int64(1), held)

		// A reversed order would let a racing read repopulate the cache
		// with the pre-cascade status.
		require.NotEmpty(t, ops)
		assert.Equal(t, []string{"bulk write", "invalidate"}, ops)

		resp, err = svc.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusOnHold, resp.Status)
	})
}

func TestCheckOpenForSelection(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("a closed registration window does not block a draw", func(t *testing.T) {
		repo := newMockEventRepo()
		event := &Event{
			ID: uuid.New(), OrganizerID: "org-1", Name: "E",
			RegistrationStart: now.Add(-2 * time.Hour), RegistrationEnd: now.Add(-time.Hour),
			Status: StatusActive,
		}
		require.NoError(t, repo.Create(ctx, event))
		svc := NewService(repo)

		got, err := svc.CheckOpenForSelection(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.ID, got.ID)

		_, err = svc.CheckOpenForRegistration(ctx, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrEventClosed)
	})

	t.Run("a stale cached snapshot is ignored", func(t *testing.T) {
		repo := newMockEventRepo()
		event := &Event{
			ID: uuid.New(), OrganizerID: "org-1", Name: "E",
			RegistrationStart: now.Add(-time.Hour), RegistrationEnd: now.Add(time.Hour),
			Status: StatusOnHold,
		}
		require.NoError(t, repo.Create(ctx, event))

		stale := *event
		stale.Status = StatusActive
		cacheSvc := newMemoryCache()
		require.NoError(t, cacheSvc.Set(ctx, GetCacheKey(event.ID), stale.ToResponse(), time.Minute))

		svc := NewService(repo)
		svc.SetCacheService(cacheSvc)

		// The snapshot path still serves the stale ACTIVE copy.
		resp, err := svc.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Equal(t, StatusActive, resp.Status)

		_, err = svc.CheckOpenForSelection(ctx, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrEventOnHold)
		_, err = svc.CheckOpenForRegistration(ctx, event.ID)
		assert.ErrorIs(t, err, apperrors.ErrEventOnHold)
	})
}

func TestLifecycleTransitions(t *testing.T) {
	assert.True(t, StatusActive.CanTransitionTo(StatusOnHold))
	assert.True(t, StatusOnHold.CanTransitionTo(StatusActive))
	assert.True(t, StatusActive.CanTransitionTo(StatusClosed))
	assert.True(t, StatusOnHold.CanTransitionTo(StatusClosed))
	assert.False(t, StatusClosed.CanTransitionTo(StatusActive))
	assert.False(t, StatusClosed.CanTransitionTo(StatusOnHold))
}
