// Package lock serialises work per key (a resource id) without blocking
// unrelated keys.
package lock

import (
	"context"
	"errors"
)

var ErrNotHeld = errors.New("lock not held")

// Locker acquires an exclusive lock on key until unlock is called.
// Lock returns ctx.Err() if the context ends first.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
