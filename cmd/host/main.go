package main

import (
	"context"
	"dreamweaver/catalogue"
	"dreamweaver/contract"
	"dreamweaver/domain/event"
	"dreamweaver/infrastructure/grpc/server"
	"dreamweaver/infrastructure/grpc/wire"
	"dreamweaver/infrastructure/storage"
	"dreamweaver/internal"
	"dreamweaver/observability"
	"dreamweaver/runtime"
	"dreamweaver/runtime/workers"
	"dreamweaver/services"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Host terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the host and keeps every deferred cleanup on the exit path.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB) holding the catalogue
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	catalogueRepository := storage.NewCatalogueRepository(db, logger)
	if err := seedCatalogue(ctx, logger, config, catalogueRepository); err != nil {
		return exitConfig, err
	}

	// 3. Host, telemetry and supervision
	monitoring := observability.NewMonitoringManager(logger)
	host := runtime.NewHost(logger, config.HostOrigin, runtime.NewRegistry(), config.BufferSize)
	if err := attachHandlers(logger, host, monitoring, config.LowCapacityThreshold); err != nil {
		return exitRuntime, err
	}
	if err := host.Load(ctx, catalogueRepository); err != nil {
		return exitRuntime, err
	}
	defer host.Close()

	telemetryChan := make(chan event.Event, config.TelemetryBufferSize)
	sup := workers.NewSupervisor(logger, telemetryChan, config.RestartInterval)
	sup.Add(
		host,
		workers.NewTelemetryWorker(logger, telemetryChan, host.Aggregator),
		workers.NewChannelCapacityWorker(logger,
			[]workers.NamedChannel{host.NamedInbox(), {Name: "telemetry", Channel: telemetryChan}},
			telemetryChan, config.MetricInterval),
		workers.NewReporterWorker(logger, monitoring, config.ReportInterval),
	)

	errChan := make(chan error, 1)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		sup.Run(ctx)
	}()

	// 4. gRPC bridge
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger)))
	bridgeService := services.NewBridgeService(host, monitoring)
	wire.RegisterBridgeServer(s, server.NewBridgeServer(logger, bridgeService, config.ConnectionBufferSize))

	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	if config.DebugPort != nil {
		internal.StartDebugServer(ctx, logger, db, *config.DebugPort, bridgeService.Participants, func() map[string]any {
			stats := bridgeService.Stats()
			return map[string]any{
				"registered":          stats.Registered,
				"handshakes_rejected": stats.HandshakesRejected,
				"forwarded":           stats.Forwarded,
				"rejected":            stats.Rejected,
				"delivery_failed":     stats.DeliveryFailed,
				"worker_restarts":     stats.WorkerRestarts,
				"alloc_mem_mb":        stats.AllocMemMb,
				"uptime":              stats.Uptime,
			}
		})
	}

	// 5. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		stop()
		<-supervisorDone
		return exitRuntime, err
	}

	// 6. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	s.GracefulStop()
	sup.Stop()
	<-supervisorDone
	logger.Info("Host stopped cleanly")

	return exitOK, nil
}

// seedCatalogue stores the catalogue file when one is configured, and the
// sample catalogue when the store is still empty.
func seedCatalogue(ctx context.Context, logger *slog.Logger, config internal.Config, repository *storage.CatalogueRepository) error {
	var source contract.Catalogue
	if config.CatalogueFile != "" {
		source = catalogue.NewFile(config.CatalogueFile)
	} else {
		stored, err := repository.GetParticipants(ctx)
		if err != nil {
			return err
		}
		if len(stored) > 0 {
			return nil
		}
		source = catalogue.Sample()
	}
	count, err := repository.Seed(ctx, source)
	if err != nil {
		return fmt.Errorf("catalogue seeding failed: %w", err)
	}
	logger.Info(fmt.Sprintf("%d participants stored in the catalogue", count))
	return nil
}

func attachHandlers(logger *slog.Logger, host *runtime.Host, monitoring *observability.MonitoringManager, lowCapacityThreshold int) error {
	attachments := []struct {
		handler event.Handler
		types   []event.Type
	}{
		{event.NewRegistrationHandler(logger, monitoring), []event.Type{event.ParticipantRegisteredType, event.HandshakeRejectedType}},
		{event.NewRoutingHandler(logger, monitoring), []event.Type{event.EventForwardedType, event.EventRejectedType, event.DeliveryFailedType}},
		{event.NewWorkerRestartedAfterPanicHandler(logger, monitoring), []event.Type{event.RestartedAfterPanicType}},
		{event.NewChannelCapacityHandler(logger, monitoring, lowCapacityThreshold), []event.Type{event.ChannelCapacityType}},
	}
	for _, a := range attachments {
		if _, err := event.Attach(host.Aggregator, a.handler, a.types...); err != nil {
			return fmt.Errorf("unable to attach telemetry handler: %w", err)
		}
	}
	return nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
