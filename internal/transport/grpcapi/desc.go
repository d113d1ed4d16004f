package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "reservation.v1.ReservationService"

// ReservationServer is the server API of reservation.v1.ReservationService.
type ReservationServer interface {
	RegisterResource(context.Context, *RegisterResourceRequest) (*ResourceResponse, error)
	GetResource(context.Context, *GetResourceRequest) (*ResourceResponse, error)
	DeactivateResource(context.Context, *DeactivateResourceRequest) (*ResourceResponse, error)
	ListResources(context.Context, *ListResourcesRequest) (*ListResourcesResponse, error)
	CreateReservation(context.Context, *CreateReservationRequest) (*ReservationResponse, error)
	GetReservation(context.Context, *GetReservationRequest) (*ReservationResponse, error)
	TransitionReservation(context.Context, *TransitionReservationRequest) (*ReservationResponse, error)
	ListReservations(context.Context, *ListReservationsRequest) (*ListReservationsResponse, error)
	CheckConflict(context.Context, *CheckConflictRequest) (*CheckConflictResponse, error)
	Availability(context.Context, *AvailabilityRequest) (*AvailabilityResponse, error)
	RemainingSeats(context.Context, *RemainingSeatsRequest) (*RemainingSeatsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReservationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("RegisterResource", ReservationServer.RegisterResource),
		unary("GetResource", ReservationServer.GetResource),
		unary("DeactivateResource", ReservationServer.DeactivateResource),
		unary("ListResources", ReservationServer.ListResources),
		unary("CreateReservation", ReservationServer.CreateReservation),
		unary("GetReservation", ReservationServer.GetReservation),
		unary("TransitionReservation", ReservationServer.TransitionReservation),
		unary("ListReservations", ReservationServer.ListReservations),
		unary("CheckConflict", ReservationServer.CheckConflict),
		unary("Availability", ReservationServer.Availability),
		unary("RemainingSeats", ReservationServer.RemainingSeats),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterReservationServer(s grpc.ServiceRegistrar, srv ReservationServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](
	name string,
	call func(ReservationServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ReservationServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ReservationServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
