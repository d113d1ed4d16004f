package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SoundInkube/soundinkube-sub000/internal/conflict"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/repository"
)

// ConflictChecker answers conflict queries against the store. It does not
// reserve anything; CreateReservation re-checks under the resource lock.
type ConflictChecker struct {
	resources    repository.ResourceRepository
	reservations repository.ReservationStore
	timeout      time.Duration
}

func NewConflictChecker(
	resources repository.ResourceRepository,
	reservations repository.ReservationStore,
	timeout time.Duration,
) *ConflictChecker {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &ConflictChecker{resources: resources, reservations: reservations, timeout: timeout}
}

// HasConflict reports whether claim collides with an active reservation on
// the resource, ignoring excludeID. The past-start rule is the caller's to check.
func (c *ConflictChecker) HasConflict(
	ctx context.Context,
	resourceID uuid.UUID,
	claim model.Claim,
	excludeID uuid.UUID,
) (bool, error) {
	res, err := bounded(ctx, c.timeout, "get resource", func(ctx context.Context) (*model.Resource, error) {
		return c.resources.GetByID(ctx, resourceID)
	})
	if err != nil {
		return false, err
	}
	if err := claim.Validate(res.Kind, time.Time{}); err != nil {
		return false, err
	}

	active, err := bounded(ctx, c.timeout, "list active", func(ctx context.Context) ([]model.Reservation, error) {
		return c.reservations.ListActiveByResource(ctx, resourceID)
	})
	if err != nil {
		return false, err
	}
	return conflict.Detect(res, claim, active, excludeID), nil
}

// remainingSeats is Capacity minus the active holders of slot, never negative.
func (c *ConflictChecker) remainingSeats(ctx context.Context, res *model.Resource, slot int) (int, error) {
	if res.Kind != model.ResourceKindFixedSession {
		return 0, fmt.Errorf("%w: %s resources have no seats", ErrInvalidArgument, res.Kind)
	}
	if slot < 0 {
		return 0, fmt.Errorf("%w: slot index %d", ErrInvalidArgument, slot)
	}
	active, err := bounded(ctx, c.timeout, "list active", func(ctx context.Context) ([]model.Reservation, error) {
		return c.reservations.ListActiveByResource(ctx, res.ID)
	})
	if err != nil {
		return 0, err
	}
	left := res.Capacity - conflict.Occupied(active, slot, uuid.Nil)
	if left < 0 {
		left = 0
	}
	return left, nil
}
