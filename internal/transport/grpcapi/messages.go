package grpcapi

import (
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

type Resource struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	Kind           string                 `json:"kind"`
	Name           string                 `json:"name"`
	Capacity       int32                  `json:"capacity"`
	UnitPriceCents int64                  `json:"unitPriceCents"`
	Currency       string                 `json:"currency"`
	Active         bool                   `json:"active"`
	Category       string                 `json:"category,omitempty"`
	Location       string                 `json:"location,omitempty"`
	SessionCount   int32                  `json:"sessionCount,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	CreatedAt      *timestamppb.Timestamp `json:"createdAt,omitempty"`
	DeactivatedAt  *timestamppb.Timestamp `json:"deactivatedAt,omitempty"`
}

type Reservation struct {
	ID              string                 `json:"id"`
	ResourceID      string                 `json:"resourceId"`
	BookerID        string                 `json:"bookerId"`
	Status          string                 `json:"status"`
	StartsAt        *timestamppb.Timestamp `json:"startsAt,omitempty"`
	EndsAt          *timestamppb.Timestamp `json:"endsAt,omitempty"`
	SlotIndex       *int32                 `json:"slotIndex,omitempty"`
	TotalPriceCents int64                  `json:"totalPriceCents"`
	Currency        string                 `json:"currency"`
	CreatedAt       *timestamppb.Timestamp `json:"createdAt,omitempty"`
	CancelledAt     *timestamppb.Timestamp `json:"cancelledAt,omitempty"`
}

type Interval struct {
	StartsAt *timestamppb.Timestamp `json:"startsAt"`
	EndsAt   *timestamppb.Timestamp `json:"endsAt"`
}

type RegisterResourceRequest struct {
	ID             string   `json:"id,omitempty"`
	OwnerID        string   `json:"ownerId"`
	Kind           string   `json:"kind"`
	Name           string   `json:"name"`
	Capacity       int32    `json:"capacity"`
	UnitPriceCents int64    `json:"unitPriceCents"`
	Currency       string   `json:"currency,omitempty"`
	Category       string   `json:"category,omitempty"`
	Location       string   `json:"location,omitempty"`
	SessionCount   int32    `json:"sessionCount,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

type GetResourceRequest struct {
	ID string `json:"id"`
}

type DeactivateResourceRequest struct {
	ID string `json:"id"`
}

type ResourceResponse struct {
	Resource *Resource `json:"resource"`
}

type CreateReservationRequest struct {
	ResourceID string                 `json:"resourceId"`
	BookerID   string                 `json:"bookerId,omitempty"`
	StartsAt   *timestamppb.Timestamp `json:"startsAt,omitempty"`
	EndsAt     *timestamppb.Timestamp `json:"endsAt,omitempty"`
	SlotIndex  *int32                 `json:"slotIndex,omitempty"`
}

type GetReservationRequest struct {
	ID string `json:"id"`
}

type TransitionReservationRequest struct {
	ID string `json:"id"`
	To string `json:"to"`
}

type ReservationResponse struct {
	Reservation *Reservation `json:"reservation"`
}

// ListResourcesRequest lists the resources of one owner, newest first.
type ListResourcesRequest struct {
	OwnerID  string `json:"ownerId"`
	Page     int32  `json:"page,omitempty"`
	PageSize int32  `json:"pageSize,omitempty"`
}

type ListResourcesResponse struct {
	Resources []*Resource `json:"resources"`
	Page      int32       `json:"page"`
	PageSize  int32       `json:"pageSize"`
	Total     int32       `json:"total"`
	HasNext   bool        `json:"hasNext"`
}

// ListReservationsRequest filters by exactly one of ResourceID or BookerID.
type ListReservationsRequest struct {
	ResourceID string `json:"resourceId,omitempty"`
	BookerID   string `json:"bookerId,omitempty"`
	Page       int32  `json:"page,omitempty"`
	PageSize   int32  `json:"pageSize,omitempty"`
}

type ListReservationsResponse struct {
	Reservations []*Reservation `json:"reservations"`
	Page         int32          `json:"page"`
	PageSize     int32          `json:"pageSize"`
	Total        int32          `json:"total"`
	HasNext      bool           `json:"hasNext"`
}

type CheckConflictRequest struct {
	ResourceID string                 `json:"resourceId"`
	StartsAt   *timestamppb.Timestamp `json:"startsAt,omitempty"`
	EndsAt     *timestamppb.Timestamp `json:"endsAt,omitempty"`
	SlotIndex  *int32                 `json:"slotIndex,omitempty"`
	ExcludeID  string                 `json:"excludeId,omitempty"`
}

type CheckConflictResponse struct {
	Conflict bool `json:"conflict"`
}

type AvailabilityRequest struct {
	ResourceID  string                 `json:"resourceId"`
	From        *timestamppb.Timestamp `json:"from"`
	To          *timestamppb.Timestamp `json:"to"`
	SlotMinutes int32                  `json:"slotMinutes"`
}

type AvailabilityResponse struct {
	Slots []*Interval `json:"slots"`
}

type RemainingSeatsRequest struct {
	ResourceID string `json:"resourceId"`
	SlotIndex  int32  `json:"slotIndex"`
}

type RemainingSeatsResponse struct {
	Remaining int32 `json:"remaining"`
}

func toResource(r *model.Resource) *Resource {
	attrs := r.Attributes.Data()
	out := &Resource{
		ID:             r.ID.String(),
		OwnerID:        r.OwnerID.String(),
		Kind:           string(r.Kind),
		Name:           r.Name,
		Capacity:       int32(r.Capacity),
		UnitPriceCents: r.UnitPriceCents,
		Currency:       r.Currency,
		Active:         r.Active,
		Category:       string(attrs.Category),
		Location:       attrs.Location,
		SessionCount:   int32(attrs.SessionCount),
		Tags:           attrs.Tags,
		CreatedAt:      timestamppb.New(r.CreatedAt),
	}
	if r.DeactivatedAt != nil {
		out.DeactivatedAt = timestamppb.New(*r.DeactivatedAt)
	}
	return out
}

func toReservation(r *model.Reservation) *Reservation {
	out := &Reservation{
		ID:              r.ID.String(),
		ResourceID:      r.ResourceID.String(),
		BookerID:        r.BookerID.String(),
		Status:          string(r.Status),
		TotalPriceCents: r.TotalPriceCents,
		Currency:        r.Currency,
		CreatedAt:       timestamppb.New(r.CreatedAt),
	}
	if r.StartsAt != nil {
		out.StartsAt = timestamppb.New(*r.StartsAt)
	}
	if r.EndsAt != nil {
		out.EndsAt = timestamppb.New(*r.EndsAt)
	}
	if r.SlotIndex != nil {
		n := int32(*r.SlotIndex)
		out.SlotIndex = &n
	}
	if r.CancelledAt != nil {
		out.CancelledAt = timestamppb.New(*r.CancelledAt)
	}
	return out
}

func toIntervals(slots []calendar.TimeRange) []*Interval {
	out := make([]*Interval, 0, len(slots))
	for _, s := range slots {
		out = append(out, &Interval{StartsAt: timestamppb.New(s.Start), EndsAt: timestamppb.New(s.End)})
	}
	return out
}
