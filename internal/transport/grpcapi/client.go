package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

// Client calls reservation.v1.ReservationService with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithActor attaches the caller identity to outgoing metadata.
func WithActor(ctx context.Context, a model.Actor) context.Context {
	return metadata.AppendToOutgoingContext(ctx, ActorIDKey, a.ID.String(), ActorRoleKey, string(a.Role))
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterResource(ctx context.Context, in *RegisterResourceRequest, opts ...grpc.CallOption) (*ResourceResponse, error) {
	return invoke[ResourceResponse](ctx, c.cc, "RegisterResource", in, opts)
}

func (c *Client) GetResource(ctx context.Context, in *GetResourceRequest, opts ...grpc.CallOption) (*ResourceResponse, error) {
	return invoke[ResourceResponse](ctx, c.cc, "GetResource", in, opts)
}

func (c *Client) DeactivateResource(ctx context.Context, in *DeactivateResourceRequest, opts ...grpc.CallOption) (*ResourceResponse, error) {
	return invoke[ResourceResponse](ctx, c.cc, "DeactivateResource", in, opts)
}

func (c *Client) CreateReservation(ctx context.Context, in *CreateReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "CreateReservation", in, opts)
}

func (c *Client) GetReservation(ctx context.Context, in *GetReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "GetReservation", in, opts)
}

func (c *Client) TransitionReservation(ctx context.Context, in *TransitionReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "TransitionReservation", in, opts)
}

func (c *Client) ListResources(ctx context.Context, in *ListResourcesRequest, opts ...grpc.CallOption) (*ListResourcesResponse, error) {
	return invoke[ListResourcesResponse](ctx, c.cc, "ListResources", in, opts)
}

func (c *Client) ListReservations(ctx context.Context, in *ListReservationsRequest, opts ...grpc.CallOption) (*ListReservationsResponse, error) {
	return invoke[ListReservationsResponse](ctx, c.cc, "ListReservations", in, opts)
}

func (c *Client) CheckConflict(ctx context.Context, in *CheckConflictRequest, opts ...grpc.CallOption) (*CheckConflictResponse, error) {
	return invoke[CheckConflictResponse](ctx, c.cc, "CheckConflict", in, opts)
}

func (c *Client) Availability(ctx context.Context, in *AvailabilityRequest, opts ...grpc.CallOption) (*AvailabilityResponse, error) {
	return invoke[AvailabilityResponse](ctx, c.cc, "Availability", in, opts)
}

func (c *Client) RemainingSeats(ctx context.Context, in *RemainingSeatsRequest, opts ...grpc.CallOption) (*RemainingSeatsResponse, error) {
	return invoke[RemainingSeatsResponse](ctx, c.cc, "RemainingSeats", in, opts)
}
