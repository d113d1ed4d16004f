package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SoundInkube/soundinkube-sub000/internal/lifecycle"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/repository"
)

// Errors returned by the reservation core. Match with errors.Is.
var (
	ErrInvalidInterval       = model.ErrInvalidInterval
	ErrInvalidArgument       = model.ErrInvalidArgument
	ErrResourceNotFound      = repository.ErrResourceNotFound
	ErrReservationNotFound   = repository.ErrReservationNotFound
	ErrResourceInactive      = repository.ErrResourceInactive
	ErrConflict              = repository.ErrConflict
	ErrStaleState            = repository.ErrStaleState
	ErrHasActiveReservations = repository.ErrHasActiveReservations
	ErrAlreadyExists         = repository.ErrDuplicate
	ErrForbidden             = lifecycle.ErrForbidden
	ErrInvalidTransition     = lifecycle.ErrInvalidTransition

	// ErrStoreTimeout means the outcome is unknown; re-read before retrying.
	ErrStoreTimeout = errors.New("store timeout")
)

const DefaultStoreTimeout = 3 * time.Second

// storeErr turns a deadline hit inside a store call into ErrStoreTimeout.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
