package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active statuses hold the slot.
func (s ReservationStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses is the status set that takes part in conflict checks.
var ActiveStatuses = []ReservationStatus{StatusPending, StatusConfirmed}

// reservations
type Reservation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ResourceID uuid.UUID `gorm:"type:uuid;not null;index:idx_reservations_resource_status,priority:1"`
	BookerID   uuid.UUID `gorm:"type:uuid;not null;index"`

	// Set for time_slot resources.
	StartsAt *time.Time
	EndsAt   *time.Time
	// Set for fixed_session resources.
	SlotIndex *int

	Status ReservationStatus `gorm:"type:varchar(32);not null;index:idx_reservations_resource_status,priority:2"`

	TotalPriceCents int64  `gorm:"not null"`
	Currency        string `gorm:"type:varchar(3);not null"`

	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
	CancelledAt *time.Time

	Resource *Resource `gorm:"foreignKey:ResourceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Interval returns the booked range of a time_slot reservation.
func (r *Reservation) Interval() (calendar.TimeRange, bool) {
	if r.StartsAt == nil || r.EndsAt == nil {
		return calendar.TimeRange{}, false
	}
	return calendar.TimeRange{Start: *r.StartsAt, End: *r.EndsAt}, true
}

// Claim reconstructs what the reservation holds.
func (r *Reservation) Claim() Claim {
	c := Claim{SlotIndex: r.SlotIndex}
	if tr, ok := r.Interval(); ok {
		c.Interval = &tr
	}
	return c
}

// StatusChange is a compare-and-swap request on a reservation status.
type StatusChange struct {
	ReservationID uuid.UUID
	From          ReservationStatus
	To            ReservationStatus
	Actor         Actor
	At            time.Time
}
