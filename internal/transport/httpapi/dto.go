package httpapi

import (
	"time"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

type registerResourceRequest struct {
	ID             string   `json:"id" validate:"omitempty,uuid"`
	OwnerID        string   `json:"owner_id" validate:"omitempty,uuid"`
	Kind           string   `json:"kind" validate:"required,oneof=time_slot fixed_session"`
	Name           string   `json:"name" validate:"required,max=200"`
	Capacity       int      `json:"capacity" validate:"required,min=1"`
	UnitPriceCents int64    `json:"unit_price_cents" validate:"min=0"`
	Currency       string   `json:"currency" validate:"omitempty,len=3,alpha"`
	Category       string   `json:"category" validate:"omitempty,oneof=jam_pad course studio other"`
	Location       string   `json:"location" validate:"max=200"`
	SessionCount   int      `json:"session_count" validate:"min=0"`
	Tags           []string `json:"tags" validate:"dive,required"`
}

type createReservationRequest struct {
	ResourceID string     `json:"resource_id" validate:"required,uuid"`
	BookerID   string     `json:"booker_id" validate:"omitempty,uuid"`
	StartsAt   *time.Time `json:"starts_at" validate:"required_without=SlotIndex,excluded_with=SlotIndex"`
	EndsAt     *time.Time `json:"ends_at" validate:"required_with=StartsAt,excluded_with=SlotIndex"`
	SlotIndex  *int       `json:"slot_index" validate:"omitempty,min=0"`
}

type transitionRequest struct {
	To string `json:"to" validate:"required,oneof=confirmed rejected cancelled completed"`
}

type resourceResponse struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	Kind           string     `json:"kind"`
	Name           string     `json:"name"`
	Capacity       int        `json:"capacity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	Currency       string     `json:"currency"`
	Active         bool       `json:"active"`
	Category       string     `json:"category"`
	Location       string     `json:"location,omitempty"`
	SessionCount   int        `json:"session_count,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DeactivatedAt  *time.Time `json:"deactivated_at,omitempty"`
}

type reservationResponse struct {
	ID              string     `json:"id"`
	ResourceID      string     `json:"resource_id"`
	BookerID        string     `json:"booker_id"`
	Status          string     `json:"status"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	SlotIndex       *int       `json:"slot_index,omitempty"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Currency        string     `json:"currency"`
	CreatedAt       time.Time  `json:"created_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

type pageResponse[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
}

type intervalResponse struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func newResourceResponse(r *model.Resource) resourceResponse {
	attrs := r.Attributes.Data()
	return resourceResponse{
		ID:             r.ID.String(),
		OwnerID:        r.OwnerID.String(),
		Kind:           string(r.Kind),
		Name:           r.Name,
		Capacity:       r.Capacity,
		UnitPriceCents: r.UnitPriceCents,
		Currency:       r.Currency,
		Active:         r.Active,
		Category:       string(attrs.Category),
		Location:       attrs.Location,
		SessionCount:   attrs.SessionCount,
		Tags:           attrs.Tags,
		CreatedAt:      r.CreatedAt,
		DeactivatedAt:  r.DeactivatedAt,
	}
}

func newReservationResponse(r *model.Reservation) reservationResponse {
	return reservationResponse{
		ID:              r.ID.String(),
		ResourceID:      r.ResourceID.String(),
		BookerID:        r.BookerID.String(),
		Status:          string(r.Status),
		StartsAt:        r.StartsAt,
		EndsAt:          r.EndsAt,
		SlotIndex:       r.SlotIndex,
		TotalPriceCents: r.TotalPriceCents,
		Currency:        r.Currency,
		CreatedAt:       r.CreatedAt,
		CancelledAt:     r.CancelledAt,
	}
}

func newReservationPage(p calendar.Page[model.Reservation]) pageResponse[reservationResponse] {
	return newPage(p, newReservationResponse)
}

func newResourcePage(p calendar.Page[model.Resource]) pageResponse[resourceResponse] {
	return newPage(p, newResourceResponse)
}

func newPage[M, R any](p calendar.Page[M], conv func(*M) R) pageResponse[R] {
	out := pageResponse[R]{
		Items:    make([]R, 0, len(p.Items)),
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasNext:  p.HasNext,
		HasPrev:  p.HasPrev,
	}
	for i := range p.Items {
		out.Items = append(out.Items, conv(&p.Items[i]))
	}
	return out
}
