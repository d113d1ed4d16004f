package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
	"github.com/SoundInkube/soundinkube-sub000/internal/conflict"
	"github.com/SoundInkube/soundinkube-sub000/internal/lock"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

// MemoryStore keeps resources and reservations in process memory.
// Resources() and Reservations() expose it as ResourceRepository and
// ReservationStore. Check-then-insert holds a per-resource lock; the map
// mutex is only held for short reads and writes.
type MemoryStore struct {
	mu           sync.RWMutex
	resources    map[uuid.UUID]model.Resource
	reservations map[uuid.UUID]model.Reservation
	events       []model.ReservationEvent

	perResource *lock.KeyedMutex
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources:    make(map[uuid.UUID]model.Resource),
		reservations: make(map[uuid.UUID]model.Reservation),
		perResource:  lock.NewKeyedMutex(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type (
	MemoryResources    struct{ s *MemoryStore }
	MemoryReservations struct{ s *MemoryStore }
)

var (
	_ ResourceRepository = (*MemoryResources)(nil)
	_ ReservationStore   = (*MemoryReservations)(nil)
)

func (s *MemoryStore) Resources() *MemoryResources       { return &MemoryResources{s: s} }
func (s *MemoryStore) Reservations() *MemoryReservations { return &MemoryReservations{s: s} }

// Events returns a copy of the audit trail.
func (s *MemoryStore) Events() []model.ReservationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ReservationEvent(nil), s.events...)
}

func (v *MemoryResources) Create(ctx context.Context, res *model.Resource) error {
	s := v.s
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := res.BeforeCreate(nil); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[res.ID]; ok {
		return ErrDuplicate
	}
	now := s.now()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now
	s.resources[res.ID] = *res
	return nil
}

func (v *MemoryResources) GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	s := v.s
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.resources[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return &res, nil
}

func (v *MemoryResources) Deactivate(ctx context.Context, id uuid.UUID, actor model.Actor, now time.Time) (*model.Resource, error) {
	s := v.s
	unlock, err := s.perResource.Lock(ctx, id.String())
	if err != nil {
		return nil, err
	}
	defer unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.resources[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	if !res.Active {
		return &res, nil
	}
	for _, r := range s.reservations {
		if r.ResourceID == id && conflict.BlocksDeactivation(&r, now) {
			return nil, ErrHasActiveReservations
		}
	}

	at := now.UTC()
	res.Active = false
	res.DeactivatedAt = &at
	res.UpdatedAt = at
	s.resources[id] = res
	s.events = append(s.events, *model.NewResourceDeactivatedEvent(id, actor, at))
	return &res, nil
}

func (v *MemoryResources) ListByOwner(ctx context.Context, ownerID uuid.UUID, opts ListOptions) ([]model.Resource, int64, error) {
	s := v.s
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	var all []model.Resource
	for _, res := range s.resources {
		if res.OwnerID == ownerID {
			all = append(all, res)
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return page(all, opts), int64(len(all)), nil
}

func (v *MemoryReservations) CreateIfNoConflict(ctx context.Context, resourceID uuid.UUID, r *model.Reservation) error {
	s := v.s
	unlock, err := s.perResource.Lock(ctx, resourceID.String())
	if err != nil {
		return err
	}
	defer unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	res, ok := s.resources[resourceID]
	var active []model.Reservation
	for _, existing := range s.reservations {
		if existing.ResourceID == resourceID && existing.Status.Active() {
			active = append(active, existing)
		}
	}
	s.mu.RUnlock()

	if !ok {
		return ErrResourceNotFound
	}
	if !res.Active {
		return ErrResourceInactive
	}
	if conflict.Detect(&res, r.Claim(), active, uuid.Nil) {
		return ErrConflict
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.BeforeCreate(nil); err != nil {
		return err
	}
	r.ResourceID = resourceID
	if r.Status == "" {
		r.Status = model.StatusPending
	}
	now := s.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	s.mu.Lock()
	s.reservations[r.ID] = cloneReservation(*r)
	s.events = append(s.events, *model.NewCreatedEvent(r))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) reservation(id uuid.UUID) (*model.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	out := cloneReservation(r)
	return &out, nil
}

func (v *MemoryReservations) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	s := v.s
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reservation(id)
}

func (v *MemoryReservations) ListByResource(ctx context.Context, resourceID uuid.UUID, opts ListOptions) ([]model.Reservation, int64, error) {
	return v.s.listWhere(ctx, opts, func(r *model.Reservation) bool { return r.ResourceID == resourceID })
}

func (v *MemoryReservations) ListByBooker(ctx context.Context, bookerID uuid.UUID, opts ListOptions) ([]model.Reservation, int64, error) {
	return v.s.listWhere(ctx, opts, func(r *model.Reservation) bool { return r.BookerID == bookerID })
}

func (s *MemoryStore) listWhere(
	ctx context.Context,
	opts ListOptions,
	match func(*model.Reservation) bool,
) ([]model.Reservation, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	var all []model.Reservation
	for _, r := range s.reservations {
		if match(&r) {
			all = append(all, cloneReservation(r))
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	return page(all, opts), int64(len(all)), nil
}

func (v *MemoryReservations) ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]model.Reservation, error) {
	items, _, err := v.s.listWhere(ctx, ListOptions{Page: 1, PageSize: -1}, func(r *model.Reservation) bool {
		return r.ResourceID == resourceID && r.Status.Active()
	})
	return items, err
}

func (v *MemoryReservations) UpdateStatus(ctx context.Context, ch model.StatusChange) (*model.Reservation, error) {
	s := v.s
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservations[ch.ReservationID]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if r.Status != ch.From {
		return nil, fmt.Errorf("%w: expected %s, have %s", ErrStaleState, ch.From, r.Status)
	}

	at := ch.At.UTC()
	r.Status = ch.To
	r.UpdatedAt = at
	if ch.To == model.StatusCancelled {
		r.CancelledAt = &at
	}
	s.reservations[r.ID] = r
	s.events = append(s.events, *model.NewStatusChangedEvent(r.ResourceID, ch))

	return s.reservation(r.ID)
}

// page cuts a sorted slice. PageSize < 0 returns everything.
func page[T any](all []T, opts ListOptions) []T {
	if opts.PageSize < 0 {
		return all
	}
	return calendar.Paginate(all, opts.Page, opts.PageSize).Items
}

func cloneReservation(r model.Reservation) model.Reservation {
	if r.StartsAt != nil {
		v := *r.StartsAt
		r.StartsAt = &v
	}
	if r.EndsAt != nil {
		v := *r.EndsAt
		r.EndsAt = &v
	}
	if r.SlotIndex != nil {
		v := *r.SlotIndex
		r.SlotIndex = &v
	}
	if r.CancelledAt != nil {
		v := *r.CancelledAt
		r.CancelledAt = &v
	}
	r.Resource = nil
	return r
}
