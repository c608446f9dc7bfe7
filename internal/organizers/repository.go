package organizers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"entrantly/internal/shared/apperrors"
)

// Repository defines the interface for organizer data access
type Repository interface {
	GetByID(ctx context.Context, id string) (*Organizer, error)
	Upsert(ctx context.Context, organizer *Organizer) error
	ListBanned(ctx context.Context) ([]Organizer, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new organizer repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByID returns the organizer row, or a default unbanned one when the
// organizer has never been acted on.
func (r *repository) GetByID(ctx context.Context, id string) (*Organizer, error) {
	var organizer Organizer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&organizer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Organizer{ID: id, Banned: false}, nil
		}
		return nil, wrapStorageErr("get organizer", err)
	}
	return &organizer, nil
}

func (r *repository) Upsert(ctx context.Context, organizer *Organizer) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"banned", "banned_at", "updated_at"}),
		}).
		Create(organizer).Error
	if err != nil {
		return wrapStorageErr("upsert organizer", err)
	}
	return nil
}

func (r *repository) ListBanned(ctx context.Context) ([]Organizer, error) {
	var organizers []Organizer
	err := r.db.WithContext(ctx).Where("banned = ?", true).Find(&organizers).Error
	if err != nil {
		return nil, wrapStorageErr("list banned organizers", err)
	}
	return organizers, nil
}

func wrapStorageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, apperrors.ErrStorageUnavailable)
}
