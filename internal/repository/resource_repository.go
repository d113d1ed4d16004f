package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SoundInkube/soundinkube-sub000/internal/conflict"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

type ResourceRepository interface {
	// Create a resource; ErrDuplicate if the ID is taken.
	Create(ctx context.Context, res *model.Resource) error
	// Get a resource by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error)
	// Deactivate unless an active reservation is still running or upcoming at now.
	// An already inactive resource is returned unchanged.
	Deactivate(ctx context.Context, id uuid.UUID, actor model.Actor, now time.Time) (*model.Resource, error)
	// Resources of an owner, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, opts ListOptions) ([]model.Resource, int64, error)
}

type GormResourceRepository struct {
	db *gorm.DB
}

func NewGormResourceRepository(db *gorm.DB) *GormResourceRepository {
	return &GormResourceRepository{db: db}
}

func (r *GormResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res.ID != uuid.Nil {
			var n int64
			if err := tx.Model(&model.Resource{}).Where("id = ?", res.ID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicate
			}
		}
		return tx.Create(res).Error
	})
	return translate(err, ErrResourceNotFound)
}

func (r *GormResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	var res model.Resource
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrResourceNotFound)
	}
	return &res, nil
}

func (r *GormResourceRepository) Deactivate(
	ctx context.Context,
	id uuid.UUID,
	actor model.Actor,
	now time.Time,
) (*model.Resource, error) {
	var res model.Resource
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Same row lock as CreateIfNoConflict, so no reservation slips in meanwhile.
		if err := lockForUpdate(tx).First(&res, "id = ?", id).Error; err != nil {
			return translate(err, ErrResourceNotFound)
		}
		if !res.Active {
			return nil
		}

		var active []model.Reservation
		if err := tx.Where("resource_id = ? AND status IN ?", id, model.ActiveStatuses).
			Find(&active).Error; err != nil {
			return err
		}
		for i := range active {
			if conflict.BlocksDeactivation(&active[i], now) {
				return ErrHasActiveReservations
			}
		}

		at := now.UTC()
		if err := tx.Model(&res).
			Where("active = ?", true).
			Updates(map[string]any{
				"active":         false,
				"deactivated_at": at,
				"updated_at":     at,
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(model.NewResourceDeactivatedEvent(id, actor, at)).Error; err != nil {
			return err
		}
		return tx.First(&res, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, ErrResourceNotFound)
	}
	return &res, nil
}

func (r *GormResourceRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	opts ListOptions,
) ([]model.Resource, int64, error) {
	var (
		items []model.Resource
		total int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("owner_id = ?", ownerID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := opts.limitOffset()
	if err := q.Order("created_at DESC").Order("id").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
