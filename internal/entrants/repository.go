package entrants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"entrantly/internal/shared/apperrors"
)

// Repository defines the interface for entrant data access. All mutations on
// one event must run inside WithEventLock; the read and write helpers do not
// take the lock themselves so they can compose under a single acquisition.
type Repository interface {
	WithEventLock(ctx context.Context, eventID uuid.UUID, fn func(ctx context.Context) error) error

	Create(ctx context.Context, record *EntrantRecord) error
	Update(ctx context.Context, record *EntrantRecord) error
	GetByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantRecord, error)
	ListByStatuses(ctx context.Context, eventID uuid.UUID, statuses []EntrantStatus) ([]EntrantRecord, error)
	CountByStatuses(ctx context.Context, eventID uuid.UUID, statuses []EntrantStatus) (int64, error)
	ListExpiredInvitations(ctx context.Context, cutoff time.Time, limit int) ([]EntrantRecord, error)
}

type repository struct {
	db     *gorm.DB
	redis  *redis.Client
	config *LockConfig
}

// LockConfig controls the per-event Redis lock
type LockConfig struct {
	TTL           time.Duration
	RetryInterval time.Duration
	MaxWait       time.Duration
}

// DefaultLockConfig returns sensible lock settings
func DefaultLockConfig() *LockConfig {
	return &LockConfig{
		TTL:           5 * time.Second,
		RetryInterval: 50 * time.Millisecond,
		MaxWait:       3 * time.Second,
	}
}

// NewRepository creates a new entrant repository
func NewRepository(db *gorm.DB, redisClient *redis.Client, config *LockConfig) Repository {
	if config == nil {
		config = DefaultLockConfig()
	}
	return &repository{
		db:     db,
		redis:  redisClient,
		config: config,
	}
}

// releaseLockScript deletes the lock only when the caller still holds it, so
// a holder that outlived the TTL cannot release a successor's lock.
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// WithEventLock serializes mutations per event using a Redis SetNX lock. The
// lock is not reentrant: fn must only use the non-locking repository helpers.
func (r *repository) WithEventLock(ctx context.Context, eventID uuid.UUID, fn func(ctx context.Context) error) error {
	lockKey := GetEventLockKey(eventID)
	token := uuid.NewString()
	deadline := time.Now().Add(r.config.MaxWait)

	for {
		acquired, err := r.redis.SetNX(ctx, lockKey, token, r.config.TTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire event lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for event lock %s: %w", eventID, apperrors.ErrStorageUnavailable)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.config.RetryInterval):
		}
	}

	defer func() {
		if err := releaseLockScript.Run(context.Background(), r.redis, []string{lockKey}, token).Err(); err != nil {
			// TTL will release the lock if the delete fails.
			_ = err
		}
	}()

	return fn(ctx)
}

func (r *repository) Create(ctx context.Context, record *EntrantRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrAlreadyJoined
		}
		return wrapStorageErr("create entrant record", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, record *EntrantRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return wrapStorageErr("update entrant record", err)
	}
	return nil
}

func (r *repository) GetByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*EntrantRecord, error) {
	var record EntrantRecord
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotOnWaitingList
		}
		return nil, wrapStorageErr("get entrant record", err)
	}
	return &record, nil
}

// ListByStatuses returns matching records ordered by join time, with user id
// as a deterministic tie-breaker. The lottery relies on this ordering.
func (r *repository) ListByStatuses(ctx context.Context, eventID uuid.UUID, statuses []EntrantStatus) ([]EntrantRecord, error) {
	var records []EntrantRecord
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status IN ?", eventID, statuses).
		Order("joined_at ASC, user_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, wrapStorageErr("list entrant records", err)
	}
	return records, nil
}

func (r *repository) CountByStatuses(ctx context.Context, eventID uuid.UUID, statuses []EntrantStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&EntrantRecord{}).
		Where("event_id = ? AND status IN ?", eventID, statuses).
		Count(&count).Error
	if err != nil {
		return 0, wrapStorageErr("count entrant records", err)
	}
	return count, nil
}

// ListExpiredInvitations returns INVITED records whose deadline passed before
// cutoff, across all events, oldest deadline first.
func (r *repository) ListExpiredInvitations(ctx context.Context, cutoff time.Time, limit int) ([]EntrantRecord, error) {
	var records []EntrantRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND invite_expires_at IS NOT NULL AND invite_expires_at < ?", StatusInvited, cutoff).
		Order("invite_expires_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, wrapStorageErr("list expired invitations", err)
	}
	return records, nil
}

func wrapStorageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, apperrors.ErrStorageUnavailable)
}
