package client

import (
	"context"
	"dreamweaver/domain"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

var errBrokenPipe = stderrors.New("broken pipe")

// brokenConn opens streams that refuse every message and remembers their context.
type brokenConn struct {
	streamCtx context.Context
}

func (c *brokenConn) Invoke(context.Context, string, any, any, ...grpc.CallOption) error {
	return errBrokenPipe
}

func (c *brokenConn) NewStream(ctx context.Context, _ *grpc.StreamDesc, _ string, _ ...grpc.CallOption) (grpc.ClientStream, error) {
	c.streamCtx = ctx
	return &brokenStream{ctx: ctx}, nil
}

type brokenStream struct {
	grpc.ClientStream
	ctx context.Context
}

func (s *brokenStream) Context() context.Context { return s.ctx }

func (s *brokenStream) SendMsg(any) error { return errBrokenPipe }

func TestHostClient_Connect_Releases_Stream_When_Handshake_Fails(t *testing.T) {
	req := require.New(t)
	conn := &brokenConn{}
	hostClient := NewHostClient(logs.GetLoggerFromLevel(slog.LevelDebug), conn, 4)

	// When the handshake cannot be written on the stream
	endpoint, err := hostClient.Connect(context.Background(), domain.NewHandshake("http://localhost:3101"))

	// Then the error surfaces and the stream context is cancelled
	req.ErrorIs(err, errBrokenPipe)
	req.Nil(endpoint)
	req.NotNil(conn.streamCtx)
	select {
	case <-conn.streamCtx.Done():
	case <-time.After(time.Second):
		req.Fail("stream context was never cancelled")
	}
}

func TestHostClient_Connect_Rejects_Untransferable_Handshake(t *testing.T) {
	req := require.New(t)
	conn := &brokenConn{}
	hostClient := NewHostClient(logs.GetLoggerFromLevel(slog.LevelDebug), conn, 4)

	_, err := hostClient.Connect(context.Background(), domain.NewEvent(domain.HandshakeEventName, func() {}))

	req.Error(err)
	req.Nil(conn.streamCtx)
}
