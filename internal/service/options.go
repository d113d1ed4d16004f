package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/SoundInkube/soundinkube-sub000/internal/events"
	"github.com/SoundInkube/soundinkube-sub000/internal/lock"
)

// Options are shared by ReservationService and ResourceRegistry.
// Both must use the same Locker.
type Options struct {
	StoreTimeout    time.Duration
	Locker          lock.Locker
	Publisher       events.Publisher
	Logger          *slog.Logger
	DefaultCurrency string
	Clock           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	if o.Locker == nil {
		o.Locker = lock.NewKeyedMutex()
	}
	if o.Publisher == nil {
		o.Publisher = events.Nop{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.DefaultCurrency == "" {
		o.DefaultCurrency = "USD"
	}
	if o.Clock == nil {
		o.Clock = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// bounded runs fn under the store timeout.
func bounded[T any](ctx context.Context, d time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	v, err := fn(ctx)
	return v, storeErr(op, err)
}

// locked runs fn holding the per-resource lock. Lock wait and fn each get
// their own store timeout.
func locked(ctx context.Context, o Options, key string, op string, fn func(context.Context) error) error {
	lockCtx, cancelLock := context.WithTimeout(ctx, o.StoreTimeout)
	unlock, err := o.Locker.Lock(lockCtx, key)
	cancelLock()
	if err != nil {
		return storeErr(op+": lock", err)
	}
	defer unlock()

	callCtx, cancel := context.WithTimeout(ctx, o.StoreTimeout)
	defer cancel()
	return storeErr(op, fn(callCtx))
}

func publish(ctx context.Context, o Options, ev events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.StoreTimeout)
	defer cancel()
	if err := o.Publisher.Publish(ctx, ev); err != nil {
		o.Logger.Warn("publish event failed", "key", ev.Key, "resource_id", ev.ResourceID, "err", err)
	}
}
