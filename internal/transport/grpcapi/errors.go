package grpcapi

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/SoundInkube/soundinkube-sub000/internal/service"
)

// toStatus maps service errors to gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codes.Internal
	switch {
	case errors.Is(err, service.ErrInvalidInterval), errors.Is(err, service.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrResourceNotFound), errors.Is(err, service.ErrReservationNotFound):
		code = codes.NotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, service.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrResourceInactive),
		errors.Is(err, service.ErrHasActiveReservations):
		code = codes.FailedPrecondition
	case errors.Is(err, service.ErrStaleState):
		code = codes.Aborted
	case errors.Is(err, service.ErrStoreTimeout):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	return status.Error(code, err.Error())
}
