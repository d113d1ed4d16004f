// Package lifecycle holds the reservation status transition table and
// who may trigger each transition.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
)

// Party is a set of relations between an actor and a reservation.
type Party uint8

const (
	PartyOwner Party = 1 << iota
	PartyBooker
	PartyAdmin
)

func (p Party) Has(other Party) bool { return p&other != 0 }

func (p Party) String() string {
	var out string
	add := func(s string) {
		if out != "" {
			out += "|"
		}
		out += s
	}
	if p.Has(PartyOwner) {
		add("owner")
	}
	if p.Has(PartyBooker) {
		add("booker")
	}
	if p.Has(PartyAdmin) {
		add("admin")
	}
	if out == "" {
		return "none"
	}
	return out
}

type edge struct {
	from, to model.ReservationStatus
}

var rules = map[edge]Party{
	{model.StatusPending, model.StatusConfirmed}:   PartyOwner | PartyAdmin,
	{model.StatusPending, model.StatusRejected}:    PartyOwner | PartyAdmin,
	{model.StatusPending, model.StatusCancelled}:   PartyBooker | PartyAdmin,
	{model.StatusConfirmed, model.StatusCancelled}: PartyBooker | PartyAdmin,
	{model.StatusConfirmed, model.StatusCompleted}: PartyOwner | PartyAdmin,
}

// Terminal reports whether no transition leaves s.
func Terminal(s model.ReservationStatus) bool {
	for e := range rules {
		if e.from == s {
			return false
		}
	}
	return true
}

// Allowed returns the parties permitted to move a reservation from -> to, or 0.
func Allowed(from, to model.ReservationStatus) Party {
	return rules[edge{from, to}]
}

// Check validates a transition for an actor holding parties.
// A terminal or unknown from->to pair fails with ErrInvalidTransition before
// the party check, so retrying a finished cancel never reports ErrForbidden.
func Check(from, to model.ReservationStatus, parties Party) error {
	if Terminal(from) {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	allowed := Allowed(from, to)
	if allowed == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if !parties.Has(allowed) {
		return fmt.Errorf("%w: %s -> %s needs %s, actor is %s", ErrForbidden, from, to, allowed, parties)
	}
	return nil
}

// PartiesOf derives the actor's relations to a reservation.
func PartiesOf(actor model.Actor, ownerID, bookerID uuid.UUID) Party {
	var p Party
	if actor.IsAdmin() {
		p |= PartyAdmin
	}
	if actor.ID == uuid.Nil {
		return p
	}
	if actor.ID == ownerID {
		p |= PartyOwner
	}
	if actor.ID == bookerID {
		p |= PartyBooker
	}
	return p
}
