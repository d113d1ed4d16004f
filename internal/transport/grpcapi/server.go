// Package grpcapi exposes the reservation core over gRPC with a JSON codec.
package grpcapi

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/service"
)

// Metadata keys carrying the caller identity, set by the upstream gateway.
const (
	ActorIDKey   = "x-actor-id"
	ActorRoleKey = "x-actor-role"
)

type Server struct {
	reservations *service.ReservationService
	resources    *service.ResourceRegistry
	now          func() time.Time
}

var _ ReservationServer = (*Server)(nil)

// NewServer wires the services. now may be nil.
func NewServer(
	reservations *service.ReservationService,
	resources *service.ResourceRegistry,
	now func() time.Time,
) *Server {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Server{reservations: reservations, resources: resources, now: now}
}

func (s *Server) RegisterResource(ctx context.Context, req *RegisterResourceRequest) (*ResourceResponse, error) {
	in := service.RegisterResourceInput{
		Kind:           model.ResourceKind(req.Kind),
		Name:           req.Name,
		Capacity:       int(req.Capacity),
		UnitPriceCents: req.UnitPriceCents,
		Currency:       req.Currency,
		Attributes: model.ResourceAttributes{
			Category:     model.ResourceCategory(req.Category),
			Location:     req.Location,
			SessionCount: int(req.SessionCount),
			Tags:         req.Tags,
		},
	}
	var err error
	if req.ID != "" {
		if in.ID, err = parseID("id", req.ID); err != nil {
			return nil, err
		}
	}
	if req.OwnerID == "" {
		if actor, err := actorFrom(ctx); err == nil {
			in.OwnerID = actor.ID
		}
	} else if in.OwnerID, err = parseID("owner_id", req.OwnerID); err != nil {
		return nil, err
	}

	res, err := s.resources.Register(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ResourceResponse{Resource: toResource(res)}, nil
}

func (s *Server) GetResource(ctx context.Context, req *GetResourceRequest) (*ResourceResponse, error) {
	id, err := parseID("id", req.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.resources.Get(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ResourceResponse{Resource: toResource(res)}, nil
}

func (s *Server) DeactivateResource(ctx context.Context, req *DeactivateResourceRequest) (*ResourceResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("id", req.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.resources.Deactivate(ctx, id, actor, s.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return &ResourceResponse{Resource: toResource(res)}, nil
}

func (s *Server) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*ReservationResponse, error) {
	resourceID, err := parseID("resource_id", req.ResourceID)
	if err != nil {
		return nil, err
	}
	var bookerID uuid.UUID
	if req.BookerID != "" {
		if bookerID, err = parseID("booker_id", req.BookerID); err != nil {
			return nil, err
		}
	} else {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, err
		}
		bookerID = actor.ID
	}
	claim, err := claimFrom(req.StartsAt, req.EndsAt, req.SlotIndex)
	if err != nil {
		return nil, err
	}

	r, err := s.reservations.CreateReservation(ctx, service.CreateReservationInput{
		ResourceID: resourceID,
		BookerID:   bookerID,
		Claim:      claim,
		Now:        s.now(),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &ReservationResponse{Reservation: toReservation(r)}, nil
}

func (s *Server) GetReservation(ctx context.Context, req *GetReservationRequest) (*ReservationResponse, error) {
	id, err := parseID("id", req.ID)
	if err != nil {
		return nil, err
	}
	r, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ReservationResponse{Reservation: toReservation(r)}, nil
}

func (s *Server) TransitionReservation(ctx context.Context, req *TransitionReservationRequest) (*ReservationResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID("id", req.ID)
	if err != nil {
		return nil, err
	}
	r, err := s.reservations.TransitionReservation(ctx, service.TransitionInput{
		ReservationID: id,
		Actor:         actor,
		To:            model.ReservationStatus(req.To),
		Now:           s.now(),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &ReservationResponse{Reservation: toReservation(r)}, nil
}

func (s *Server) ListResources(ctx context.Context, req *ListResourcesRequest) (*ListResourcesResponse, error) {
	ownerID, err := parseID("owner_id", req.OwnerID)
	if err != nil {
		return nil, err
	}
	page, err := s.resources.ListByOwner(ctx, ownerID, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListResourcesResponse{
		Resources: make([]*Resource, 0, len(page.Items)),
		Page:      int32(page.Page),
		PageSize:  int32(page.PageSize),
		Total:     int32(page.Total),
		HasNext:   page.HasNext,
	}
	for i := range page.Items {
		resp.Resources = append(resp.Resources, toResource(&page.Items[i]))
	}
	return resp, nil
}

func (s *Server) ListReservations(ctx context.Context, req *ListReservationsRequest) (*ListReservationsResponse, error) {
	if (req.ResourceID == "") == (req.BookerID == "") {
		return nil, status.Error(codes.InvalidArgument, "exactly one of resource_id or booker_id is required")
	}

	var (
		page calendar.Page[model.Reservation]
		err  error
	)
	if req.ResourceID != "" {
		id, perr := parseID("resource_id", req.ResourceID)
		if perr != nil {
			return nil, perr
		}
		page, err = s.reservations.ListReservationsForResource(ctx, id, int(req.Page), int(req.PageSize))
	} else {
		id, perr := parseID("booker_id", req.BookerID)
		if perr != nil {
			return nil, perr
		}
		page, err = s.reservations.ListReservationsForBooker(ctx, id, int(req.Page), int(req.PageSize))
	}
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListReservationsResponse{
		Reservations: make([]*Reservation, 0, len(page.Items)),
		Page:         int32(page.Page),
		PageSize:     int32(page.PageSize),
		Total:        int32(page.Total),
		HasNext:      page.HasNext,
	}
	for i := range page.Items {
		resp.Reservations = append(resp.Reservations, toReservation(&page.Items[i]))
	}
	return resp, nil
}

func (s *Server) CheckConflict(ctx context.Context, req *CheckConflictRequest) (*CheckConflictResponse, error) {
	resourceID, err := parseID("resource_id", req.ResourceID)
	if err != nil {
		return nil, err
	}
	var exclude uuid.UUID
	if req.ExcludeID != "" {
		if exclude, err = parseID("exclude_id", req.ExcludeID); err != nil {
			return nil, err
		}
	}
	claim, err := claimFrom(req.StartsAt, req.EndsAt, req.SlotIndex)
	if err != nil {
		return nil, err
	}
	has, err := s.reservations.HasConflict(ctx, resourceID, claim, exclude, s.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return &CheckConflictResponse{Conflict: has}, nil
}

func (s *Server) Availability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error) {
	resourceID, err := parseID("resource_id", req.ResourceID)
	if err != nil {
		return nil, err
	}
	if err := req.From.CheckValid(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "from: %v", err)
	}
	if err := req.To.CheckValid(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "to: %v", err)
	}
	window, err := calendar.NewTimeRange(req.From.AsTime(), req.To.AsTime())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "window: %v", err)
	}

	slots, err := s.reservations.Availability(ctx, resourceID, window, time.Duration(req.SlotMinutes)*time.Minute, s.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return &AvailabilityResponse{Slots: toIntervals(slots)}, nil
}

func (s *Server) RemainingSeats(ctx context.Context, req *RemainingSeatsRequest) (*RemainingSeatsResponse, error) {
	resourceID, err := parseID("resource_id", req.ResourceID)
	if err != nil {
		return nil, err
	}
	left, err := s.reservations.RemainingSeats(ctx, resourceID, int(req.SlotIndex))
	if err != nil {
		return nil, toStatus(err)
	}
	return &RemainingSeatsResponse{Remaining: int32(left)}, nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s: %v", field, err)
	}
	return id, nil
}

// claimFrom accepts either an interval or a slot index, not both.
func claimFrom(start, end *timestamppb.Timestamp, slot *int32) (model.Claim, error) {
	switch {
	case slot != nil && (start != nil || end != nil):
		return model.Claim{}, status.Error(codes.InvalidArgument, "use either starts_at/ends_at or slot_index")
	case slot != nil:
		return model.SlotClaim(int(*slot)), nil
	case start == nil || end == nil:
		return model.Claim{}, status.Error(codes.InvalidArgument, "starts_at and ends_at are required")
	}
	if err := start.CheckValid(); err != nil {
		return model.Claim{}, status.Errorf(codes.InvalidArgument, "starts_at: %v", err)
	}
	if err := end.CheckValid(); err != nil {
		return model.Claim{}, status.Errorf(codes.InvalidArgument, "ends_at: %v", err)
	}
	return model.IntervalClaim(start.AsTime(), end.AsTime()), nil
}

// actorFrom reads the caller identity from incoming metadata.
func actorFrom(ctx context.Context) (model.Actor, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	ids, roles := md.Get(ActorIDKey), md.Get(ActorRoleKey)
	if len(ids) == 0 || len(roles) == 0 {
		return model.Actor{}, status.Error(codes.Unauthenticated, "actor metadata is missing")
	}
	id, err := uuid.Parse(ids[0])
	if err != nil {
		return model.Actor{}, status.Errorf(codes.Unauthenticated, "%s: %v", ActorIDKey, err)
	}
	role, err := model.ParseActorRole(roles[0])
	if err != nil {
		return model.Actor{}, status.Errorf(codes.Unauthenticated, "%s: %v", ActorRoleKey, err)
	}
	return model.Actor{ID: id, Role: role}, nil
}
