package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
	"github.com/SoundInkube/soundinkube-sub000/internal/events"
	"github.com/SoundInkube/soundinkube-sub000/internal/lifecycle"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/pricing"
	"github.com/SoundInkube/soundinkube-sub000/internal/repository"
)

type ReservationService struct {
	resources    repository.ResourceRepository
	reservations repository.ReservationStore
	checker      *ConflictChecker
	opts         Options
}

func NewReservationService(
	resources repository.ResourceRepository,
	reservations repository.ReservationStore,
	opts Options,
) *ReservationService {
	opts = opts.withDefaults()
	return &ReservationService{
		resources:    resources,
		reservations: reservations,
		checker:      NewConflictChecker(resources, reservations, opts.StoreTimeout),
		opts:         opts,
	}
}

type CreateReservationInput struct {
	ResourceID uuid.UUID
	BookerID   uuid.UUID
	Claim      model.Claim
	// Now is the caller's clock; intervals may not start before it.
	Now time.Time
}

// CreateReservation prices the claim and stores it as pending if it collides
// with no active reservation. The check and insert run under the resource lock.
func (s *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	if in.Now.IsZero() {
		return nil, fmt.Errorf("%w: now is required", ErrInvalidArgument)
	}
	if in.BookerID == uuid.Nil {
		return nil, fmt.Errorf("%w: booker id is required", ErrInvalidArgument)
	}
	// Interval shape is checked before the store is touched.
	if in.Claim.Interval != nil {
		if err := in.Claim.Interval.Validate(in.Now); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}
	}

	res, err := s.getResource(ctx, in.ResourceID)
	if err != nil {
		return nil, err
	}
	if !res.Active {
		return nil, ErrResourceInactive
	}
	if err := in.Claim.Validate(res.Kind, in.Now); err != nil {
		return nil, err
	}

	price, err := pricing.Price(res, in.Claim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	r := &model.Reservation{
		BookerID:        in.BookerID,
		Status:          model.StatusPending,
		TotalPriceCents: price.Amount,
		Currency:        price.Currency,
		CreatedAt:       in.Now.UTC(),
	}
	in.Claim.Apply(r)

	err = locked(ctx, s.opts, res.ID.String(), "create reservation", func(ctx context.Context) error {
		return s.reservations.CreateIfNoConflict(ctx, res.ID, r)
	})
	if err != nil {
		s.opts.Logger.Info("reservation rejected",
			"resource_id", res.ID, "booker_id", in.BookerID, "err", err)
		return nil, err
	}

	s.opts.Logger.Info("reservation created",
		"reservation_id", r.ID, "resource_id", res.ID, "booker_id", r.BookerID, "price", price.String())
	publish(ctx, s.opts, events.ForReservation(r, nil, in.Now))
	return r, nil
}

type TransitionInput struct {
	ReservationID uuid.UUID
	Actor         model.Actor
	To            model.ReservationStatus
	// Now stamps the change; zero means the service clock.
	Now time.Time
}

// TransitionReservation moves a reservation along the lifecycle table with a
// compare-and-swap on its current status.
func (s *ReservationService) TransitionReservation(ctx context.Context, in TransitionInput) (*model.Reservation, error) {
	if err := in.Actor.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if !in.To.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, in.To)
	}
	now := in.Now
	if now.IsZero() {
		now = s.opts.Clock()
	}

	cur, err := s.GetReservation(ctx, in.ReservationID)
	if err != nil {
		return nil, err
	}
	res, err := s.getResource(ctx, cur.ResourceID)
	if err != nil {
		return nil, err
	}

	parties := lifecycle.PartiesOf(in.Actor, res.OwnerID, cur.BookerID)
	if err := lifecycle.Check(cur.Status, in.To, parties); err != nil {
		return nil, err
	}

	updated, err := bounded(ctx, s.opts.StoreTimeout, "update status", func(ctx context.Context) (*model.Reservation, error) {
		return s.reservations.UpdateStatus(ctx, model.StatusChange{
			ReservationID: cur.ID,
			From:          cur.Status,
			To:            in.To,
			Actor:         in.Actor,
			At:            now.UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.opts.Logger.Info("reservation status changed",
		"reservation_id", updated.ID, "from", cur.Status, "to", updated.Status,
		"actor_id", in.Actor.ID, "actor_role", in.Actor.Role)
	publish(ctx, s.opts, events.ForReservation(updated, &in.Actor, now))
	return updated, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return bounded(ctx, s.opts.StoreTimeout, "get reservation", func(ctx context.Context) (*model.Reservation, error) {
		return s.reservations.GetByID(ctx, id)
	})
}

func (s *ReservationService) ListReservationsForResource(
	ctx context.Context,
	resourceID uuid.UUID,
	page, pageSize int,
) (calendar.Page[model.Reservation], error) {
	if _, err := s.getResource(ctx, resourceID); err != nil {
		return calendar.Page[model.Reservation]{}, err
	}
	return s.list(ctx, page, pageSize, func(ctx context.Context, o repository.ListOptions) ([]model.Reservation, int64, error) {
		return s.reservations.ListByResource(ctx, resourceID, o)
	})
}

func (s *ReservationService) ListReservationsForBooker(
	ctx context.Context,
	bookerID uuid.UUID,
	page, pageSize int,
) (calendar.Page[model.Reservation], error) {
	return s.list(ctx, page, pageSize, func(ctx context.Context, o repository.ListOptions) ([]model.Reservation, int64, error) {
		return s.reservations.ListByBooker(ctx, bookerID, o)
	})
}

type listFunc func(context.Context, repository.ListOptions) ([]model.Reservation, int64, error)

func (s *ReservationService) list(ctx context.Context, page, pageSize int, fn listFunc) (calendar.Page[model.Reservation], error) {
	page, pageSize = calendar.NormalizePage(page, pageSize)

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	items, total, err := fn(ctx, repository.ListOptions{Page: page, PageSize: pageSize})
	if err != nil {
		return calendar.Page[model.Reservation]{}, storeErr("list reservations", err)
	}
	return calendar.PageOf(items, page, pageSize, total), nil
}

// HasConflict validates claim against now and asks the conflict checker.
func (s *ReservationService) HasConflict(
	ctx context.Context,
	resourceID uuid.UUID,
	claim model.Claim,
	excludeID uuid.UUID,
	now time.Time,
) (bool, error) {
	if claim.Interval != nil {
		if err := claim.Interval.Validate(now); err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}
	}
	return s.checker.HasConflict(ctx, resourceID, claim, excludeID)
}

// Availability lists the slots of slotDuration inside window that are free
// on a time_slot resource. Slots before now are not offered.
func (s *ReservationService) Availability(
	ctx context.Context,
	resourceID uuid.UUID,
	window calendar.TimeRange,
	slotDuration time.Duration,
	now time.Time,
) ([]calendar.TimeRange, error) {
	if err := window.Validate(time.Time{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	if slotDuration <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive", ErrInvalidArgument)
	}

	res, err := s.getResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.Kind != model.ResourceKindTimeSlot {
		return nil, fmt.Errorf("%w: availability is for time_slot resources", ErrInvalidArgument)
	}
	if !res.Active {
		return nil, ErrResourceInactive
	}

	if window.Start.Before(now) {
		if !now.Before(window.End) {
			return []calendar.TimeRange{}, nil
		}
		// Skip to the first slot boundary of the window at or after now.
		elapsed := now.Sub(window.Start)
		steps := (elapsed + slotDuration - 1) / slotDuration
		window.Start = window.Start.Add(steps * slotDuration)
	}
	candidates, err := calendar.SplitToTimeSlots(window, slotDuration, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	active, err := bounded(ctx, s.opts.StoreTimeout, "list active", func(ctx context.Context) ([]model.Reservation, error) {
		return s.reservations.ListActiveByResource(ctx, resourceID)
	})
	if err != nil {
		return nil, err
	}
	busy := make([]calendar.TimeRange, 0, len(active))
	for i := range active {
		if tr, ok := active[i].Interval(); ok {
			busy = append(busy, tr)
		}
	}
	return calendar.FreeSlots(candidates, busy), nil
}

// RemainingSeats returns the free seats of a fixed_session slot.
func (s *ReservationService) RemainingSeats(ctx context.Context, resourceID uuid.UUID, slot int) (int, error) {
	res, err := s.getResource(ctx, resourceID)
	if err != nil {
		return 0, err
	}
	return s.checker.remainingSeats(ctx, res, slot)
}

func (s *ReservationService) getResource(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	return bounded(ctx, s.opts.StoreTimeout, "get resource", func(ctx context.Context) (*model.Resource, error) {
		return s.resources.GetByID(ctx, id)
	})
}
