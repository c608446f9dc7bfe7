package lottery

import (
	"context"

	"github.com/google/uuid"

	"entrantly/internal/events"
	"entrantly/pkg/logger"
)

// Coordinator backfills freed slots after a decline or an expired
// invitation. It satisfies entrants.ReplacementTrigger.
type Coordinator struct {
	runner Service
	events events.Service
	logger *logger.Logger
}

// NewCoordinator creates a replacement coordinator
func NewCoordinator(runner Service, eventService events.Service) *Coordinator {
	return &Coordinator{
		runner: runner,
		events: eventService,
		logger: logger.GetDefault(),
	}
}

// HandleWithdrawal draws replacements one at a time until the capacity gap is
// filled or the waiting pool runs dry. Events without a capacity have no gap
// to measure, so a single draw replaces the withdrawn invitee. Best effort: a
// failed draw leaves the slot for the next manual run, it never fails the
// withdrawal that triggered it.
func (c *Coordinator) HandleWithdrawal(ctx context.Context, eventID uuid.UUID, withdrawnUserID string) {
	event, err := c.events.CheckOpenForSelection(ctx, eventID)
	if err != nil {
		c.logger.ErrorWithContext(ctx, "replacement draw skipped", err, map[string]interface{}{
			"event_id": eventID.String(),
			"user_id":  withdrawnUserID,
		})
		return
	}

	one := 1
	backfilled := 0
	for {
		result, err := c.runner.Run(ctx, eventID, &one)
		if err != nil {
			c.logger.ErrorWithContext(ctx, "replacement draw failed", err, map[string]interface{}{
				"event_id": eventID.String(),
				"user_id":  withdrawnUserID,
			})
			break
		}
		if len(result.Invited) == 0 {
			break
		}
		backfilled += len(result.Invited)
		if event.Capacity == nil {
			break
		}
	}
	c.logger.LogReplacementDraw(ctx, eventID.String(), withdrawnUserID, backfilled)
}
