package organizers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrganizerRepo struct {
	rows map[string]*Organizer
}

func newMockOrganizerRepo() *mockOrganizerRepo {
	return &mockOrganizerRepo{rows: make(map[string]*Organizer)}
}

func (m *mockOrganizerRepo) GetByID(ctx context.Context, id string) (*Organizer, error) {
	if row, ok := m.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return &Organizer{ID: id}, nil
}

func (m *mockOrganizerRepo) Upsert(ctx context.Context, organizer *Organizer) error {
	copied := *organizer
	m.rows[organizer.ID] = &copied
	return nil
}

func (m *mockOrganizerRepo) ListBanned(ctx context.Context) ([]Organizer, error) {
	var out []Organizer
	for _, row := range m.rows {
		if row.Banned {
			out = append(out, *row)
		}
	}
	return out, nil
}

type mockEventRegistry struct {
	cascades []string
	held     int64
}

func (m *mockEventRegistry) PlaceOnHoldByOrganizer(ctx context.Context, organizerID string) (int64, error) {
	m.cascades = append(m.cascades, organizerID)
	return m.held, nil
}

func TestBan(t *testing.T) {
	ctx := context.Background()

	t.Run("ban flags the organizer and cascades", func(t *testing.T) {
		repo := newMockOrganizerRepo()
		registry := &mockEventRegistry{held: 3}
		svc := NewService(repo, registry)

		resp, err := svc.Ban(ctx, "org-1")
		require.NoError(t, err)
		assert.True(t, resp.Banned)
		assert.Equal(t, int64(3), resp.EventsOnHold)
		assert.Equal(t, []string{"org-1"}, registry.cascades)

		banned, err := svc.IsBanned(ctx, "org-1")
		require.NoError(t, err)
		assert.True(t, banned)
		require.NotNil(t, repo.rows["org-1"].BannedAt)
	})

	t.Run("ban is idempotent and re-runs the cascade", func(t *testing.T) {
		repo := newMockOrganizerRepo()
		registry := &mockEventRegistry{}
		svc := NewService(repo, registry)

		_, err := svc.Ban(ctx, "org-1")
		require.NoError(t, err)
		firstBannedAt := repo.rows["org-1"].BannedAt

		_, err = svc.Ban(ctx, "org-1")
		require.NoError(t, err)
		assert.Equal(t, firstBannedAt, repo.rows["org-1"].BannedAt, "second ban must not re-stamp")
		assert.Len(t, registry.cascades, 2)
	})
}

func TestUnban(t *testing.T) {
	ctx := context.Background()

	t.Run("unban clears the flag without touching events", func(t *testing.T) {
		repo := newMockOrganizerRepo()
		registry := &mockEventRegistry{}
		svc := NewService(repo, registry)

		_, err := svc.Ban(ctx, "org-1")
		require.NoError(t, err)

		resp, err := svc.Unban(ctx, "org-1")
		require.NoError(t, err)
		assert.False(t, resp.Banned)
		assert.Nil(t, resp.BannedAt)

		// Only the ban cascaded; unban leaves every event ON_HOLD.
		assert.Len(t, registry.cascades, 1)

		banned, err := svc.IsBanned(ctx, "org-1")
		require.NoError(t, err)
		assert.False(t, banned)
	})

	t.Run("unban of an unknown organizer is a no-op", func(t *testing.T) {
		repo := newMockOrganizerRepo()
		svc := NewService(repo, &mockEventRegistry{})

		resp, err := svc.Unban(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, resp.Banned)
	})
}

func TestIsBannedDefaultsToFalse(t *testing.T) {
	svc := NewService(newMockOrganizerRepo(), &mockEventRegistry{})
	banned, err := svc.IsBanned(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestListBanned(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrganizerRepo()
	svc := NewService(repo, &mockEventRegistry{})

	_, err := svc.Ban(ctx, "org-1")
	require.NoError(t, err)
	_, err = svc.Ban(ctx, "org-2")
	require.NoError(t, err)
	_, err = svc.Unban(ctx, "org-2")
	require.NoError(t, err)

	banned, err := svc.ListBanned(ctx)
	require.NoError(t, err)
	require.Len(t, banned, 1)
	assert.Equal(t, "org-1", banned[0].ID)
}
