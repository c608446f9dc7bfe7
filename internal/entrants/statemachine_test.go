package entrants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrantly/internal/shared/apperrors"
)

func TestApplyTransitionTable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		from     EntrantStatus
		event    TransitionEvent
		wantTo   EntrantStatus
		wantFail bool
	}{
		{"waiting selected", StatusWaiting, EventSelected, StatusInvited, false},
		{"waiting self leave", StatusWaiting, EventSelfLeave, StatusCancelled, false},
		{"waiting organizer cancel", StatusWaiting, EventOrganizerCancel, StatusCancelled, false},
		{"invited accept", StatusInvited, EventAccept, StatusAccepted, false},
		{"invited decline", StatusInvited, EventDecline, StatusDeclined, false},
		{"invited expire", StatusInvited, EventInviteExpired, StatusUninvited, false},
		{"cancelled rejoin", StatusCancelled, EventRejoin, StatusWaiting, false},

		{"declined cannot rejoin", StatusDeclined, EventRejoin, "", true},
		{"uninvited cannot rejoin", StatusUninvited, EventRejoin, "", true},

		{"waiting cannot accept", StatusWaiting, EventAccept, "", true},
		{"waiting cannot decline", StatusWaiting, EventDecline, "", true},
		{"waiting cannot expire", StatusWaiting, EventInviteExpired, "", true},
		{"invited cannot leave", StatusInvited, EventSelfLeave, "", true},
		{"invited cannot be selected again", StatusInvited, EventSelected, "", true},
		{"accepted is terminal", StatusAccepted, EventDecline, "", true},
		{"accepted cannot rejoin", StatusAccepted, EventRejoin, "", true},
		{"declined cannot accept", StatusDeclined, EventAccept, "", true},
		{"cancelled cannot be selected", StatusCancelled, EventSelected, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &EntrantRecord{Status: tt.from}
			err := Apply(record, tt.event, now)

			if tt.wantFail {
				require.Error(t, err)
				assert.True(t, apperrors.IsInvalidTransition(err))
				assert.Equal(t, tt.from, record.Status, "failed transition must not mutate the record")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTo, record.Status)
		})
	}
}

func TestApplyStampsSideFields(t *testing.T) {
	now := time.Now()

	t.Run("selected stamps invited at", func(t *testing.T) {
		record := &EntrantRecord{Status: StatusWaiting}
		require.NoError(t, Apply(record, EventSelected, now))
		require.NotNil(t, record.InvitedAt)
		assert.Equal(t, now, *record.InvitedAt)
	})

	t.Run("accept stamps responded at", func(t *testing.T) {
		record := &EntrantRecord{Status: StatusInvited}
		require.NoError(t, Apply(record, EventAccept, now))
		require.NotNil(t, record.RespondedAt)
	})

	t.Run("self leave marks self initiated", func(t *testing.T) {
		record := &EntrantRecord{Status: StatusWaiting}
		require.NoError(t, Apply(record, EventSelfLeave, now))
		assert.True(t, record.SelfInitiated)
	})

	t.Run("organizer cancel is not self initiated", func(t *testing.T) {
		record := &EntrantRecord{Status: StatusWaiting}
		require.NoError(t, Apply(record, EventOrganizerCancel, now))
		assert.False(t, record.SelfInitiated)
	})

	t.Run("rejoin resets the cycle", func(t *testing.T) {
		old := now.Add(-72 * time.Hour)
		deadline := now.Add(-24 * time.Hour)
		record := &EntrantRecord{
			Status:          StatusUninvited,
			JoinedAt:        old,
			SelfInitiated:   true,
			InvitedAt:       &old,
			InviteExpiresAt: &deadline,
			RespondedAt:     &old,
		}
		require.NoError(t, Apply(record, EventRejoin, now))

		assert.Equal(t, StatusWaiting, record.Status)
		assert.Equal(t, now, record.JoinedAt)
		assert.False(t, record.SelfInitiated)
		assert.Nil(t, record.InvitedAt)
		assert.Nil(t, record.InviteExpiresAt)
		assert.Nil(t, record.RespondedAt)
	})
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusDeclined.IsTerminal())
	assert.True(t, StatusUninvited.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusWaiting.IsTerminal())
	assert.False(t, StatusInvited.IsTerminal())

	assert.False(t, EntrantStatus("BOGUS").IsValid())
	assert.True(t, StatusWaiting.IsValid())
}

func TestInviteExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&EntrantRecord{Status: StatusInvited, InviteExpiresAt: &past}).InviteExpired(now))
	assert.False(t, (&EntrantRecord{Status: StatusInvited, InviteExpiresAt: &future}).InviteExpired(now))
	assert.False(t, (&EntrantRecord{Status: StatusInvited}).InviteExpired(now))
	assert.False(t, (&EntrantRecord{Status: StatusWaiting, InviteExpiresAt: &past}).InviteExpired(now))
}
