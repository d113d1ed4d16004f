package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
	ErrRangeInPast      = errors.New("time range starts in the past")
)

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a range in UTC and checks that Start < End.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, ErrInvalidTimeRange
	}
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}

// Validate checks the range shape and that it does not start before now.
// now is supplied by the caller; a zero now skips the past check.
func (tr TimeRange) Validate(now time.Time) error {
	if tr.Start.IsZero() || tr.End.IsZero() || !tr.End.After(tr.Start) {
		return ErrInvalidTimeRange
	}
	if !now.IsZero() && tr.Start.Before(now) {
		return ErrRangeInPast
	}
	return nil
}

// Duration returns End - Start.
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Overlaps reports whether two half-open ranges share at least one instant.
// Touching ranges ([10:00,12:00) and [12:00,14:00)) do not overlap.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

func (tr TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", tr.Start.UTC().Format(time.RFC3339), tr.End.UTC().Format(time.RFC3339))
}

// HasOverlap checks newRange against existing and returns every range it collides with.
func HasOverlap(newRange TimeRange, existing []TimeRange) (bool, []TimeRange) {
	var conflicts []TimeRange

	for _, tr := range existing {
		if newRange.Overlaps(tr) {
			conflicts = append(conflicts, tr)
		}
	}

	return len(conflicts) > 0, conflicts
}

// SplitToTimeSlots cuts the range into consecutive slots of slotDuration.
// alignMinutes > 0 moves the first slot start up to the next multiple of alignMinutes.
// A tail shorter than slotDuration is dropped.
func SplitToTimeSlots(
	tr TimeRange,
	slotDuration time.Duration,
	alignMinutes int,
) ([]TimeRange, error) {
	if slotDuration <= 0 {
		return nil, ErrSlotDuration
	}
	if !tr.End.After(tr.Start) {
		return []TimeRange{}, nil
	}

	start := tr.Start

	if alignMinutes > 0 {
		step := time.Duration(alignMinutes) * time.Minute
		aligned := start.Truncate(step)
		if aligned.Before(start) {
			aligned = aligned.Add(step)
		}
		start = aligned
		if !start.Before(tr.End) {
			return []TimeRange{}, nil
		}
	}

	slots := []TimeRange{}
	for cur := start; !cur.Add(slotDuration).After(tr.End); cur = cur.Add(slotDuration) {
		slots = append(slots, TimeRange{Start: cur, End: cur.Add(slotDuration)})
	}

	return slots, nil
}

// FreeSlots returns the slots of candidates that overlap none of busy.
func FreeSlots(candidates, busy []TimeRange) []TimeRange {
	free := make([]TimeRange, 0, len(candidates))
	for _, c := range candidates {
		if has, _ := HasOverlap(c, busy); !has {
			free = append(free, c)
		}
	}
	return free
}
