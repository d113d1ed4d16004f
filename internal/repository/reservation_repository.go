package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SoundInkube/soundinkube-sub000/internal/conflict"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

type ReservationStore interface {
	// Check the claim against active reservations and insert as one atomic step per resource.
	CreateIfNoConflict(ctx context.Context, resourceID uuid.UUID, r *model.Reservation) error
	// Get a reservation by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// Reservations of a resource, newest first.
	ListByResource(ctx context.Context, resourceID uuid.UUID, opts ListOptions) ([]model.Reservation, int64, error)
	// Reservations of a booker, newest first.
	ListByBooker(ctx context.Context, bookerID uuid.UUID, opts ListOptions) ([]model.Reservation, int64, error)
	// Pending and confirmed reservations of a resource.
	ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]model.Reservation, error)
	// Compare-and-swap the status; ErrStaleState if it is no longer ch.From.
	UpdateStatus(ctx context.Context, ch model.StatusChange) (*model.Reservation, error)
}

type GormReservationStore struct {
	db *gorm.DB
}

func NewGormReservationStore(db *gorm.DB) *GormReservationStore {
	return &GormReservationStore{db: db}
}

// lockForUpdate adds FOR UPDATE where the dialect has it. SQLite serialises
// writers at transaction level and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *GormReservationStore) CreateIfNoConflict(
	ctx context.Context,
	resourceID uuid.UUID,
	r *model.Reservation,
) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res model.Resource
		if err := lockForUpdate(tx).First(&res, "id = ?", resourceID).Error; err != nil {
			return translate(err, ErrResourceNotFound)
		}
		if !res.Active {
			return ErrResourceInactive
		}

		claim := r.Claim()
		q := tx.Where("resource_id = ? AND status IN ?", resourceID, model.ActiveStatuses)
		switch {
		case claim.Interval != nil:
			q = q.Where("starts_at < ? AND ends_at > ?", claim.Interval.End, claim.Interval.Start)
		case claim.SlotIndex != nil:
			q = q.Where("slot_index = ?", *claim.SlotIndex)
		}

		var active []model.Reservation
		if err := q.Find(&active).Error; err != nil {
			return err
		}
		if conflict.Detect(&res, claim, active, uuid.Nil) {
			return ErrConflict
		}

		r.ResourceID = resourceID
		if r.Status == "" {
			r.Status = model.StatusPending
		}
		if err := tx.Create(r).Error; err != nil {
			return err
		}
		return tx.Create(model.NewCreatedEvent(r)).Error
	})
	return translate(err, ErrResourceNotFound)
}

func (s *GormReservationStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var r model.Reservation
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrReservationNotFound)
	}
	return &r, nil
}

func (s *GormReservationStore) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
	opts ListOptions,
) ([]model.Reservation, int64, error) {
	return s.list(ctx, "resource_id = ?", resourceID, opts)
}

func (s *GormReservationStore) ListByBooker(
	ctx context.Context,
	bookerID uuid.UUID,
	opts ListOptions,
) ([]model.Reservation, int64, error) {
	return s.list(ctx, "booker_id = ?", bookerID, opts)
}

func (s *GormReservationStore) list(
	ctx context.Context,
	where string,
	id uuid.UUID,
	opts ListOptions,
) ([]model.Reservation, int64, error) {
	var (
		items []model.Reservation
		total int64
	)

	q := s.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where(where, id)

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

func (s *GormReservationStore) ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]model.Reservation, error) {
	var items []model.Reservation
	err := s.db.WithContext(ctx).
		Where("resource_id = ? AND status IN ?", resourceID, model.ActiveStatuses).
		Order("starts_at ASC").Order("slot_index ASC").
		Find(&items).Error
	return items, err
}

func (s *GormReservationStore) UpdateStatus(ctx context.Context, ch model.StatusChange) (*model.Reservation, error) {
	var out model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", ch.ReservationID).Error; err != nil {
			return translate(err, ErrReservationNotFound)
		}

		update := map[string]any{
			"status":     ch.To,
			"updated_at": ch.At,
		}
		if ch.To == model.StatusCancelled {
			update["cancelled_at"] = ch.At
		}

		res := tx.Model(&model.Reservation{}).
			Where("id = ? AND status = ?", ch.ReservationID, ch.From).
			Updates(update)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: expected %s", ErrStaleState, ch.From)
		}

		if err := tx.Create(model.NewStatusChangedEvent(out.ResourceID, ch)).Error; err != nil {
			return err
		}
		return tx.First(&out, "id = ?", ch.ReservationID).Error
	})
	if err != nil {
		return nil, translate(err, ErrReservationNotFound)
	}
	return &out, nil
}
