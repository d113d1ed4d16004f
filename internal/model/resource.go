package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResourceKind decides how reservations on a resource collide.
type ResourceKind string

const (
	// ResourceKindTimeSlot resources are booked by [start, end) intervals.
	ResourceKindTimeSlot ResourceKind = "time_slot"
	// ResourceKindFixedSession resources are booked by slot index up to Capacity seats.
	ResourceKindFixedSession ResourceKind = "fixed_session"
)

func (k ResourceKind) Valid() bool {
	return k == ResourceKindTimeSlot || k == ResourceKindFixedSession
}

type ResourceCategory string

const (
	CategoryJamPad ResourceCategory = "jam_pad"
	CategoryCourse ResourceCategory = "course"
	CategoryStudio ResourceCategory = "studio"
	CategoryOther  ResourceCategory = "other"
)

func (c ResourceCategory) Valid() bool {
	switch c {
	case CategoryJamPad, CategoryCourse, CategoryStudio, CategoryOther:
		return true
	}
	return false
}

// ResourceAttributes is the typed JSON payload stored next to a resource.
type ResourceAttributes struct {
	Category     ResourceCategory `json:"category"`
	Location     string           `json:"location,omitempty"`
	SessionCount int              `json:"session_count,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
}

// resources
type Resource struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Kind    ResourceKind `gorm:"type:varchar(32);not null"`
	OwnerID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Name    string       `gorm:"type:varchar(255);not null"`

	// Max simultaneous holders. Always 1 for time_slot.
	Capacity int `gorm:"not null;default:1"`

	// Per hour for time_slot, per seat for fixed_session.
	UnitPriceCents int64  `gorm:"not null"`
	Currency       string `gorm:"type:varchar(3);not null"`

	Active bool `gorm:"not null;default:true;index"`

	Attributes datatypes.JSONType[ResourceAttributes]

	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
	DeactivatedAt *time.Time
}

func (r *Resource) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
