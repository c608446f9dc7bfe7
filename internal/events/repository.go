package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entrantly/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for event data operations
type Repository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error)
	List(ctx context.Context, status LifecycleStatus) ([]Event, error)

	// SetLifecycle writes only the lifecycle status of one event.
	SetLifecycle(ctx context.Context, id uuid.UUID, status LifecycleStatus) error

	// SetLifecycleByOrganizer writes the lifecycle status of every event
	// owned by one organizer and returns how many rows changed. Used by the
	// ban cascade.
	SetLifecycleByOrganizer(ctx context.Context, organizerID string, status LifecycleStatus) (int64, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new event repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", wrapStorageErr(err))
	}
	return nil
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	event.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).
		Model(event).
		Where("id = ?", event.ID).
		Updates(event).Error
	if err != nil {
		return fmt.Errorf("failed to update event: %w", wrapStorageErr(err))
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", wrapStorageErr(err))
	}
	return &event, nil
}

func (r *repository) ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events by organizer: %w", wrapStorageErr(err))
	}
	return events, nil
}

func (r *repository) List(ctx context.Context, status LifecycleStatus) ([]Event, error) {
	var events []Event
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Order("registration_start ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", wrapStorageErr(err))
	}
	return events, nil
}

func (r *repository) SetLifecycle(ctx context.Context, id uuid.UUID, status LifecycleStatus) error {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set event lifecycle: %w", wrapStorageErr(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *repository) SetLifecycleByOrganizer(ctx context.Context, organizerID string, status LifecycleStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("organizer_id = ? AND status <> ?", organizerID, status).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to set lifecycle by organizer: %w", wrapStorageErr(result.Error))
	}
	return result.RowsAffected, nil
}

// wrapStorageErr folds driver/network failures into the transient storage
// sentinel so callers can treat the operation as not-applied.
func wrapStorageErr(err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
}
