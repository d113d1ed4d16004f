package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SoundInkube/soundinkube-sub000/internal/events"
	"github.com/SoundInkube/soundinkube-sub000/internal/lock"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/repository"
)

type harness struct {
	resources    repository.ResourceRepository
	reservations repository.ReservationStore
	locker       *lock.KeyedMutex
	events       *events.Recorder

	svc      *ReservationService
	registry *ResourceRegistry
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newHarness(t *testing.T, resources repository.ResourceRepository, reservations repository.ReservationStore) *harness {
	t.Helper()
	h := &harness{
		resources:    resources,
		reservations: reservations,
		locker:       lock.NewKeyedMutex(),
		events:       &events.Recorder{},
	}
	opts := Options{
		StoreTimeout: time.Second,
		Locker:       h.locker,
		Publisher:    h.events,
		Logger:       quietLogger(),
		Clock:        func() time.Time { return base },
	}
	h.svc = NewReservationService(resources, reservations, opts)
	h.registry = NewResourceRegistry(resources, opts)
	return h
}

func memoryHarness(t *testing.T) *harness {
	m := repository.NewMemoryStore()
	return newHarness(t, m.Resources(), m.Reservations())
}

func sqliteHarness(t *testing.T) *harness {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, model.AutoMigrate(db))

	return newHarness(t, repository.NewGormResourceRepository(db), repository.NewGormReservationStore(db))
}

var harnesses = map[string]func(*testing.T) *harness{
	"memory":      memoryHarness,
	"gorm-sqlite": sqliteHarness,
}

func eachHarness(t *testing.T, fn func(t *testing.T, h *harness)) {
	for name, mk := range harnesses {
		t.Run(name, func(t *testing.T) { fn(t, mk(t)) })
	}
}

// base is the caller's "now" in most tests.
var base = time.Date(2030, 6, 3, 8, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2030, 6, 3, h, m, 0, 0, time.UTC)
}

func (h *harness) room(t *testing.T, centsPerHour int64) (*model.Resource, model.Actor) {
	t.Helper()
	owner := model.Actor{ID: uuid.New(), Role: model.RoleProvider}
	res, err := h.registry.Register(context.Background(), RegisterResourceInput{
		OwnerID:        owner.ID,
		Kind:           model.ResourceKindTimeSlot,
		Name:           "Jam Pad R",
		Capacity:       1,
		UnitPriceCents: centsPerHour,
		Attributes:     model.ResourceAttributes{Category: model.CategoryJamPad},
	})
	require.NoError(t, err)
	return res, owner
}

func (h *harness) course(t *testing.T, capacity int) (*model.Resource, model.Actor) {
	t.Helper()
	owner := model.Actor{ID: uuid.New(), Role: model.RoleProvider}
	res, err := h.registry.Register(context.Background(), RegisterResourceInput{
		OwnerID:        owner.ID,
		Kind:           model.ResourceKindFixedSession,
		Name:           "Songwriting cohort",
		Capacity:       capacity,
		UnitPriceCents: 15000,
		Currency:       "eur",
		Attributes:     model.ResourceAttributes{Category: model.CategoryCourse, SessionCount: 6},
	})
	require.NoError(t, err)
	return res, owner
}

func (h *harness) book(ctx context.Context, resourceID, bookerID uuid.UUID, claim model.Claim) (*model.Reservation, error) {
	return h.svc.CreateReservation(ctx, CreateReservationInput{
		ResourceID: resourceID,
		BookerID:   bookerID,
		Claim:      claim,
		Now:        base,
	})
}

func client() model.Actor {
	return model.Actor{ID: uuid.New(), Role: model.RoleClient}
}

// countingResources counts lookups.
type countingResources struct {
	repository.ResourceRepository
	mu    sync.Mutex
	calls int
}

func (c *countingResources) GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.ResourceRepository.GetByID(ctx, id)
}

// repricedResources reports a different unit price than the one stored.
type repricedResources struct {
	repository.ResourceRepository
	price int64
}

func (r *repricedResources) GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	res, err := r.ResourceRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res.UnitPriceCents = r.price
	return res, nil
}

// racingReservations lets another writer change the status between the
// service's read and its compare-and-swap.
type racingReservations struct {
	repository.ReservationStore
	sneak model.ReservationStatus
}

func (r *racingReservations) UpdateStatus(ctx context.Context, ch model.StatusChange) (*model.Reservation, error) {
	if _, err := r.ReservationStore.UpdateStatus(ctx, model.StatusChange{
		ReservationID: ch.ReservationID, From: ch.From, To: r.sneak, At: ch.At,
	}); err != nil {
		return nil, err
	}
	return r.ReservationStore.UpdateStatus(ctx, ch)
}

// stallingReservations blocks inserts until the context ends.
type stallingReservations struct {
	repository.ReservationStore
}

func (stallingReservations) CreateIfNoConflict(ctx context.Context, _ uuid.UUID, _ *model.Reservation) error {
	<-ctx.Done()
	return ctx.Err()
}

// failingPublisher always errors.
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error { return io.ErrClosedPipe }
