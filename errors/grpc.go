package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError translates domain errors into gRPC status errors.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrInvalidHandshake),
		errors.Is(err, ErrNotTransferable),
		errors.Is(err, ErrInvalidSelector),
		errors.Is(err, ErrInvalidPayload):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrUnknownOrigin):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrChannelClosed):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, ErrChannelFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
