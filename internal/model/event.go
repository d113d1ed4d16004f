package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit event type.
type EventType string

const (
	EventTypeReservationCreated       EventType = "reservation_created"
	EventTypeReservationStatusChanged EventType = "reservation_status_changed"
	EventTypeResourceDeactivated      EventType = "resource_deactivated"
)

// reservation_events, written in the same transaction as the change.
type ReservationEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	ReservationID *uuid.UUID `gorm:"type:uuid;index"`
	ResourceID    uuid.UUID  `gorm:"type:uuid;not null;index"`

	ActorID   *uuid.UUID `gorm:"type:uuid"`
	ActorRole ActorRole  `gorm:"type:varchar(16)"`

	FromStatus ReservationStatus `gorm:"type:varchar(32)"`
	ToStatus   ReservationStatus `gorm:"type:varchar(32)"`

	CreatedAt time.Time `gorm:"not null;index"`
}

func (e *ReservationEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// actorRef returns nil for an anonymous actor.
func actorRef(a Actor) *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

func NewCreatedEvent(r *Reservation) *ReservationEvent {
	id := r.ID
	booker := r.BookerID
	return &ReservationEvent{
		EventType:     EventTypeReservationCreated,
		ReservationID: &id,
		ResourceID:    r.ResourceID,
		ActorID:       &booker,
		ActorRole:     RoleClient,
		ToStatus:      r.Status,
		CreatedAt:     r.CreatedAt,
	}
}

func NewStatusChangedEvent(resourceID uuid.UUID, ch StatusChange) *ReservationEvent {
	id := ch.ReservationID
	return &ReservationEvent{
		EventType:     EventTypeReservationStatusChanged,
		ReservationID: &id,
		ResourceID:    resourceID,
		ActorID:       actorRef(ch.Actor),
		ActorRole:     ch.Actor.Role,
		FromStatus:    ch.From,
		ToStatus:      ch.To,
		CreatedAt:     ch.At,
	}
}

func NewResourceDeactivatedEvent(resourceID uuid.UUID, actor Actor, at time.Time) *ReservationEvent {
	return &ReservationEvent{
		EventType:  EventTypeResourceDeactivated,
		ResourceID: resourceID,
		ActorID:    actorRef(actor),
		ActorRole:  actor.Role,
		CreatedAt:  at,
	}
}
