// Package events publishes reservation lifecycle notifications to
// downstream consumers.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

// Routing keys.
const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationRejected  = "reservation.rejected"
	ReservationCancelled = "reservation.cancelled"
	ReservationCompleted = "reservation.completed"
	ResourceDeactivated  = "resource.deactivated"
)

// KeyForStatus maps a reservation status to its routing key.
func KeyForStatus(s model.ReservationStatus) string {
	switch s {
	case model.StatusPending:
		return ReservationCreated
	case model.StatusConfirmed:
		return ReservationConfirmed
	case model.StatusRejected:
		return ReservationRejected
	case model.StatusCancelled:
		return ReservationCancelled
	case model.StatusCompleted:
		return ReservationCompleted
	}
	return "reservation." + string(s)
}

type Event struct {
	Key             string                  `json:"type"`
	ReservationID   *uuid.UUID              `json:"reservation_id,omitempty"`
	ResourceID      uuid.UUID               `json:"resource_id"`
	BookerID        *uuid.UUID              `json:"booker_id,omitempty"`
	ActorID         *uuid.UUID              `json:"actor_id,omitempty"`
	Status          model.ReservationStatus `json:"status,omitempty"`
	TotalPriceCents int64                   `json:"total_price_cents,omitempty"`
	Currency        string                  `json:"currency,omitempty"`
	OccurredAt      time.Time               `json:"occurred_at"`
}

func ForReservation(r *model.Reservation, actor *model.Actor, at time.Time) Event {
	id, booker := r.ID, r.BookerID
	ev := Event{
		Key:             KeyForStatus(r.Status),
		ReservationID:   &id,
		ResourceID:      r.ResourceID,
		BookerID:        &booker,
		Status:          r.Status,
		TotalPriceCents: r.TotalPriceCents,
		Currency:        r.Currency,
		OccurredAt:      at.UTC(),
	}
	if actor != nil && actor.ID != uuid.Nil {
		a := actor.ID
		ev.ActorID = &a
	}
	return ev
}

func ForDeactivation(res *model.Resource, actor model.Actor, at time.Time) Event {
	a := actor.ID
	return Event{
		Key:        ResourceDeactivated,
		ResourceID: res.ID,
		ActorID:    &a,
		OccurredAt: at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Keys returns the routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		keys = append(keys, ev.Key)
	}
	return keys
}
