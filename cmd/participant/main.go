package main

import (
	"context"
	"dreamweaver/connector"
	"dreamweaver/domain"
	"dreamweaver/infrastructure/grpc/client"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Participant terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run connects a sample participant to the host, logs what it receives and
// publishes the configured events periodically.
func run() (int, error) {
	_ = godotenv.Load()
	config, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.HostAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("unable to reach host %s: %w", config.HostAddr, err)
	}
	defer func() { _ = conn.Close() }()

	participantContext := connector.NewContext(logger)
	c, err := participantContext.Init(config.Origin, config.HostOrigin,
		client.NewHostClient(logger, conn, config.OutboxSize))
	if err != nil {
		return exitConfig, err
	}
	defer func() { _ = c.Close() }()

	for _, name := range config.Subscribe {
		if _, err := c.Subscribe(name, received(logger, name)); err != nil {
			return exitConfig, err
		}
	}

	if err := c.Ready(ctx); err != nil {
		return exitRuntime, err
	}

	ticker := time.NewTicker(config.PublishInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Participant stopped cleanly", "origin", config.Origin)
			return exitOK, nil
		case at := <-ticker.C:
			for _, name := range config.Publish {
				data := fmt.Sprintf("message from %s at %s", config.Origin, at.Format(time.TimeOnly))
				if err := c.Publish(domain.NewEvent(name, data)); err != nil {
					logger.Warn("Publish failed", "event", name, "error", err)
				}
			}
		}
	}
}

func received(logger *slog.Logger, name string) func(data any) {
	return func(data any) {
		logger.Info("Event received", "event", name, "data", data)
	}
}
