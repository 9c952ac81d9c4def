package server

import (
	"context"
	"dreamweaver/domain"
	"dreamweaver/errors"
	"dreamweaver/infrastructure/grpc/wire"
	"dreamweaver/services"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type BridgeServer struct {
	bridgeService services.IBridgeService
	outboxSize    int
	log           *slog.Logger
}

func NewBridgeServer(log *slog.Logger, bridgeService services.IBridgeService, outboxSize int) *BridgeServer {
	return &BridgeServer{bridgeService: bridgeService, outboxSize: outboxSize, log: log}
}

// Connect is the remote rendition of the handshake. The first message must be
// "client:loaded"; the stream itself then becomes the endpoint transferred to
// the host. It blocks until the client leaves or the host closes the channel.
func (s *BridgeServer) Connect(stream grpc.ServerStream) error {
	ctx := stream.Context()
	var first structpb.Struct
	if err := stream.RecvMsg(&first); err != nil {
		return err
	}
	handshake, err := wire.FromStruct(&first)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	origin, err := domain.OriginOf(handshake)
	if err != nil {
		return errors.MapToGRPCError(err)
	}

	endpoint := wire.NewStreamEndpoint(s.log.With("origin", origin), stream, s.outboxSize)
	if err := s.bridgeService.Handshake(ctx, handshake, endpoint); err != nil {
		return errors.MapToGRPCError(err)
	}
	s.log.Debug("Remote participant connected", "origin", origin)

	err = endpoint.Serve(ctx)
	switch {
	case err == nil && endpoint.HungUp():
		s.log.Debug("Remote participant hung up", "origin", origin)
		return nil
	case err == nil && ctx.Err() == nil:
		// Closed by the host: rejected or superseded
		return status.Error(codes.Aborted, errors.ErrChannelClosed.Error())
	case ctx.Err() != nil:
		s.log.Debug("Remote participant disconnected", "origin", origin)
		return nil
	default:
		return errors.MapToGRPCError(err)
	}
}

func (s *BridgeServer) ListParticipants(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return wire.ParticipantsToStruct(s.bridgeService.Participants()), nil
}
