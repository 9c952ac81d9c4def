package e2e

import (
	"context"
	"dreamweaver/infrastructure/grpc/client"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.HostAddr == "" {
		s.T().Skip("HOST_ADDR is not set, no running host to test against")
	}
}

// GrpcConn dials the host and traces every unary call of the step
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string, addr string) *grpc.ClientConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	trace := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			t.Logf("%s [%s] in %v: %v", method, status.Code(err), time.Since(start), err)
			return err
		}
		t.Logf("%s [%s] in %v", method, status.Code(err), time.Since(start))
		return nil
	}

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(trace),
	)
	s.Require().NoError(err, "Failed to connect to the host at "+addr)
	return conn
}

// WithHost provides a bridge client within a contextual test step
func (s *BaseGrpcSuite) WithHost(name string, fn func(ctx context.Context, hostClient *client.HostClient)) {
	conn := s.GrpcConn(s.T(), name, s.Config.HostAddr)
	defer conn.Close()

	hostClient := client.NewHostClient(logs.GetLoggerFromLevel(slog.LevelDebug), conn, 16)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, hostClient)
}
