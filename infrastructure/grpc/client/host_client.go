package client

import (
	"context"
	"dreamweaver/contract"
	"dreamweaver/domain"
	"dreamweaver/infrastructure/grpc/wire"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// HostClient links a participant running in another process to the host.
type HostClient struct {
	log        *slog.Logger
	conn       grpc.ClientConnInterface
	outboxSize int
}

func NewHostClient(log *slog.Logger, conn grpc.ClientConnInterface, outboxSize int) *HostClient {
	return &HostClient{log: log, conn: conn, outboxSize: outboxSize}
}

// Connect opens the bridge stream, sends the handshake first and returns the
// stream as the participant's endpoint. The stream lives as long as ctx.
func (c *HostClient) Connect(ctx context.Context, handshake domain.Event) (contract.Endpoint, error) {
	message, err := wire.ToStruct(handshake)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := c.conn.NewStream(streamCtx, wire.ConnectStreamDesc(), wire.Bridge_Connect_FullMethodName)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("unable to open bridge stream: %w", err)
	}
	if err := stream.SendMsg(message); err != nil {
		cancel()
		return nil, fmt.Errorf("unable to send handshake: %w", err)
	}

	endpoint := wire.NewStreamEndpoint(c.log, stream, c.outboxSize)
	go func() {
		defer cancel()
		if err := endpoint.Serve(streamCtx); err != nil && ctx.Err() == nil {
			c.log.Warn("Bridge stream ended", "error", err)
		}
		_ = stream.CloseSend()
	}()
	return endpoint, nil
}

// ListParticipants returns the host registry.
func (c *HostClient) ListParticipants(ctx context.Context) ([]domain.ParticipantStatus, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, wire.Bridge_ListParticipants_Method, new(emptypb.Empty), out); err != nil {
		return nil, err
	}
	return wire.ParticipantsFromStruct(out), nil
}
