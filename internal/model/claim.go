package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
)

var (
	ErrInvalidInterval = errors.New("invalid interval")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Claim is what a booker asks for: an interval on a time_slot resource
// or a slot index on a fixed_session resource. Exactly one is set.
type Claim struct {
	Interval  *calendar.TimeRange
	SlotIndex *int
}

func IntervalClaim(start, end time.Time) Claim {
	tr := calendar.TimeRange{Start: start.UTC(), End: end.UTC()}
	return Claim{Interval: &tr}
}

func SlotClaim(slot int) Claim {
	return Claim{SlotIndex: &slot}
}

// Validate checks the claim shape against the resource kind.
// now is caller-supplied; intervals may not start before it.
func (c Claim) Validate(kind ResourceKind, now time.Time) error {
	switch kind {
	case ResourceKindTimeSlot:
		if c.Interval == nil || c.SlotIndex != nil {
			return fmt.Errorf("%w: time_slot resources take an interval", ErrInvalidArgument)
		}
		if err := c.Interval.Validate(now); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}
	case ResourceKindFixedSession:
		if c.SlotIndex == nil || c.Interval != nil {
			return fmt.Errorf("%w: fixed_session resources take a slot index", ErrInvalidArgument)
		}
		if *c.SlotIndex < 0 {
			return fmt.Errorf("%w: slot index %d", ErrInvalidArgument, *c.SlotIndex)
		}
	default:
		return fmt.Errorf("%w: unknown resource kind %q", ErrInvalidArgument, kind)
	}
	return nil
}

// Apply copies the claim onto a reservation.
func (c Claim) Apply(r *Reservation) {
	if c.Interval != nil {
		start, end := c.Interval.Start.UTC(), c.Interval.End.UTC()
		r.StartsAt, r.EndsAt = &start, &end
	}
	if c.SlotIndex != nil {
		slot := *c.SlotIndex
		r.SlotIndex = &slot
	}
}
