// Package httpapi exposes the reservation core as a JSON API over echo.
package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/service"
)

type Handler struct {
	reservations *service.ReservationService
	resources    *service.ResourceRegistry
	now          func() time.Time
}

// NewHandler wires the services. now may be nil.
func NewHandler(reservations *service.ReservationService, resources *service.ResourceRegistry, now func() time.Time) *Handler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Handler{reservations: reservations, resources: resources, now: now}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RegisterResource(c echo.Context) error {
	var req registerResourceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.RegisterResourceInput{
		Kind:           model.ResourceKind(req.Kind),
		Name:           req.Name,
		Capacity:       req.Capacity,
		UnitPriceCents: req.UnitPriceCents,
		Currency:       req.Currency,
		Attributes: model.ResourceAttributes{
			Category:     model.ResourceCategory(req.Category),
			Location:     req.Location,
			SessionCount: req.SessionCount,
			Tags:         req.Tags,
		},
	}
	if req.ID != "" {
		in.ID = uuid.MustParse(req.ID)
	}
	if req.OwnerID != "" {
		in.OwnerID = uuid.MustParse(req.OwnerID)
	} else if actor, ok := currentActor(c); ok {
		in.OwnerID = actor.ID
	}

	res, err := h.resources.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newResourceResponse(res))
}

func (h *Handler) GetResource(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.resources.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newResourceResponse(res))
}

func (h *Handler) DeactivateResource(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.resources.Deactivate(c.Request().Context(), id, actor, h.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newResourceResponse(res))
}

func (h *Handler) ListResourceReservations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	p, err := h.reservations.ListReservationsForResource(c.Request().Context(), id, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationPage(p))
}

func (h *Handler) ListBookerReservations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	p, err := h.reservations.ListReservationsForBooker(c.Request().Context(), id, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationPage(p))
}

// ListOwnerResources handles GET /v1/owners/:id/resources.
func (h *Handler) ListOwnerResources(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	p, err := h.resources.ListByOwner(c.Request().Context(), id, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newResourcePage(p))
}

// Availability handles GET /v1/resources/:id/availability?from=&to=&slot_minutes=
func (h *Handler) Availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var (
		from, to time.Time
		minutes  = 60
	)
	err = echo.QueryParamsBinder(c).
		MustTime("from", &from, time.RFC3339).
		MustTime("to", &to, time.RFC3339).
		Int("slot_minutes", &minutes).
		BindError()
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
	}
	window, err := calendar.NewTimeRange(from, to)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInterval, err)
	}

	slots, err := h.reservations.Availability(
		c.Request().Context(), id,
		window,
		time.Duration(minutes)*time.Minute,
		h.now(),
	)
	if err != nil {
		return err
	}
	out := make([]intervalResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, intervalResponse{StartsAt: s.Start, EndsAt: s.End})
	}
	return c.JSON(http.StatusOK, map[string]any{"slots": out})
}

func (h *Handler) RemainingSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return fmt.Errorf("%w: slot must be an integer", service.ErrInvalidArgument)
	}
	left, err := h.reservations.RemainingSeats(c.Request().Context(), id, slot)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"slot_index": slot, "remaining": left})
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var req createReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.CreateReservationInput{
		ResourceID: uuid.MustParse(req.ResourceID),
		Now:        h.now(),
	}
	if req.BookerID != "" {
		in.BookerID = uuid.MustParse(req.BookerID)
	} else {
		actor, err := requireActor(c)
		if err != nil {
			return err
		}
		in.BookerID = actor.ID
	}
	if req.SlotIndex != nil {
		in.Claim = model.SlotClaim(*req.SlotIndex)
	} else {
		in.Claim = model.IntervalClaim(*req.StartsAt, *req.EndsAt)
	}

	r, err := h.reservations.CreateReservation(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newReservationResponse(r))
}

func (h *Handler) GetReservation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.reservations.GetReservation(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationResponse(r))
}

func (h *Handler) TransitionReservation(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.reservations.TransitionReservation(c.Request().Context(), service.TransitionInput{
		ReservationID: id,
		Actor:         actor,
		To:            model.ReservationStatus(req.To),
		Now:           h.now(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationResponse(r))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid request body", service.ErrInvalidArgument)
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a uuid", service.ErrInvalidArgument, name)
	}
	return id, nil
}

func pageParams(c echo.Context) (page, size int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("page_size", &size).
		BindError()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
	}
	return page, size, nil
}
