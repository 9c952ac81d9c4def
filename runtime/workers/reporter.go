package workers

import (
	"context"
	"dreamweaver/observability"
	"log/slog"
	"time"
)

// ReporterWorker periodically logs the routing counters of the host.
type ReporterWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewReporterWorker(log *slog.Logger, monitoring *observability.MonitoringManager, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, monitoring: monitoring, interval: interval}
}

// Run starts the reporting loop until context cancellation
func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report()
			w.log.Debug("Reporter stopped")
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *ReporterWorker) report() {
	stats := w.monitoring.GetLatest()
	w.log.Info("Routing stats",
		"uptime", stats.Uptime,
		"registered", stats.Registered,
		"handshakes_rejected", stats.HandshakesRejected,
		"forwarded", stats.Forwarded,
		"rejected", stats.Rejected,
		"delivery_failed", stats.DeliveryFailed,
		"worker_restarts", stats.WorkerRestarts,
		"ram_mb", stats.AllocMemMb,
	)
}
