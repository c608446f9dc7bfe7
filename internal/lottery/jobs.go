package lottery

import (
	"context"
	"time"

	"entrantly/internal/entrants"
	"entrantly/pkg/logger"
)

const expirySweepBatchSize = 100

// JobProcessor expires overdue invitations in the background and backfills
// the freed slots.
type JobProcessor struct {
	pool        entrants.Repository
	coordinator *Coordinator
	interval    time.Duration
	logger      *logger.Logger
	done        chan struct{}
	now         func() time.Time
}

// NewJobProcessor creates the invitation-expiry sweeper
func NewJobProcessor(pool entrants.Repository, coordinator *Coordinator, interval time.Duration) *JobProcessor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JobProcessor{
		pool:        pool,
		coordinator: coordinator,
		interval:    interval,
		logger:      logger.GetDefault(),
		done:        make(chan struct{}),
		now:         time.Now,
	}
}

// Start runs the sweep loop until Stop is called
func (p *JobProcessor) Start() {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.done:
				return
			case <-ticker.C:
				p.sweep(context.Background())
			}
		}
	}()
}

// Stop shuts down the sweep loop
func (p *JobProcessor) Stop() {
	close(p.done)
}

func (p *JobProcessor) sweep(ctx context.Context) {
	expired, err := p.pool.ListExpiredInvitations(ctx, p.now(), expirySweepBatchSize)
	if err != nil {
		p.logger.ErrorWithContext(ctx, "expiry sweep query failed", err, nil)
		return
	}

	for i := range expired {
		p.expireOne(ctx, &expired[i])
	}
}

func (p *JobProcessor) expireOne(ctx context.Context, stale *entrants.EntrantRecord) {
	eventID := stale.EventID
	userID := stale.UserID
	expired := false

	err := p.pool.WithEventLock(ctx, eventID, func(ctx context.Context) error {
		// Re-read under the lock: the entrant may have responded between
		// the sweep query and now.
		record, err := p.pool.GetByEventAndUser(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if !record.InviteExpired(p.now()) {
			return nil
		}
		if err := entrants.Apply(record, entrants.EventInviteExpired, p.now()); err != nil {
			return err
		}
		if err := p.pool.Update(ctx, record); err != nil {
			return err
		}
		expired = true
		return nil
	})
	if err != nil {
		p.logger.ErrorWithContext(ctx, "failed to expire invitation", err, map[string]interface{}{
			"event_id": eventID.String(),
			"user_id":  userID,
		})
		return
	}

	if expired && p.coordinator != nil {
		p.coordinator.HandleWithdrawal(ctx, eventID, userID)
	}
}
