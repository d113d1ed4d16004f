package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrResourceInactive      = errors.New("resource is inactive")
	ErrConflict              = errors.New("reservation conflicts with an existing one")
	ErrStaleState            = errors.New("reservation status changed concurrently")
	ErrHasActiveReservations = errors.New("resource has active reservations")
	ErrDuplicate             = errors.New("record already exists")
)

// PostgreSQL SQLSTATE codes.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// translate maps driver errors onto repository sentinels. notFound is
// returned in place of gorm.ErrRecordNotFound.
func translate(err, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		}
	}
	return err
}
