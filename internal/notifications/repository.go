package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"entrantly/internal/shared/apperrors"
)

// Repository defines the interface for notification data access
type Repository interface {
	CreateLogEntry(ctx context.Context, entry *NotificationLogEntry) error
	ListLogEntries(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]NotificationLogEntry, error)
	GetPreference(ctx context.Context, userID string) (*NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *NotificationPreference) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateLogEntry(ctx context.Context, entry *NotificationLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return wrapStorageErr("create notification log entry", err)
	}
	return nil
}

func (r *repository) ListLogEntries(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]NotificationLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []NotificationLogEntry
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sent_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, wrapStorageErr("list notification log entries", err)
	}
	return entries, nil
}

// GetPreference returns the stored preference, or a default opted-in one
// when the user never set anything.
func (r *repository) GetPreference(ctx context.Context, userID string) (*NotificationPreference, error) {
	var pref NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotificationPreference{UserID: userID, OptedOut: false}, nil
		}
		return nil, wrapStorageErr("get notification preference", err)
	}
	return &pref, nil
}

func (r *repository) UpsertPreference(ctx context.Context, pref *NotificationPreference) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"opted_out", "updated_at"}),
		}).
		Create(pref).Error
	if err != nil {
		return wrapStorageErr("upsert notification preference", err)
	}
	return nil
}

func wrapStorageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, apperrors.ErrStorageUnavailable)
}
