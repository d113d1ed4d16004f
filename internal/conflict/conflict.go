// Package conflict decides whether a claim collides with the active
// reservations of a resource.
package conflict

import (
	"time"

	"github.com/google/uuid"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

// Detect reports whether claim collides with existing on resource.
// Reservations that are not pending/confirmed, or whose id equals exclude, are ignored.
//
// time_slot: any half-open overlap is a conflict; back-to-back ranges are not.
// fixed_session: the slot is saturated once it holds Capacity active reservations.
func Detect(resource *model.Resource, claim model.Claim, existing []model.Reservation, exclude uuid.UUID) bool {
	switch resource.Kind {
	case model.ResourceKindTimeSlot:
		if claim.Interval == nil {
			return false
		}
		for i := range existing {
			r := &existing[i]
			if skip(r, exclude) {
				continue
			}
			tr, ok := r.Interval()
			if ok && claim.Interval.Overlaps(tr) {
				return true
			}
		}
		return false

	case model.ResourceKindFixedSession:
		if claim.SlotIndex == nil {
			return false
		}
		return Occupied(existing, *claim.SlotIndex, exclude) >= resource.Capacity
	}
	return false
}

// Occupied counts active reservations holding slot.
func Occupied(existing []model.Reservation, slot int, exclude uuid.UUID) int {
	n := 0
	for i := range existing {
		r := &existing[i]
		if skip(r, exclude) {
			continue
		}
		if r.SlotIndex != nil && *r.SlotIndex == slot {
			n++
		}
	}
	return n
}

func skip(r *model.Reservation, exclude uuid.UUID) bool {
	if !r.Status.Active() {
		return true
	}
	return exclude != uuid.Nil && r.ID == exclude
}

// BlocksDeactivation reports whether r keeps its resource from being deactivated at now:
// an active reservation whose interval has not ended, or any active session seat.
func BlocksDeactivation(r *model.Reservation, now time.Time) bool {
	if !r.Status.Active() {
		return false
	}
	if tr, ok := r.Interval(); ok {
		return tr.End.After(now)
	}
	return true
}
