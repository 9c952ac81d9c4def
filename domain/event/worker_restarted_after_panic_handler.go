package event

import (
	"dreamweaver/errors"
	"dreamweaver/observability"
	"fmt"
	"log/slog"
)

// WorkerRestartedAfterPanicHandler handles events when a worker panics and is restarted.
// It is triggered by the Supervisor when a worker recovers from a panic.
// Useful for monitoring reliability and resilience of the host.
type WorkerRestartedAfterPanicHandler struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
}

func NewWorkerRestartedAfterPanicHandler(log *slog.Logger, monitoring *observability.MonitoringManager) *WorkerRestartedAfterPanicHandler {
	return &WorkerRestartedAfterPanicHandler{log: log, monitoring: monitoring}
}

func (h *WorkerRestartedAfterPanicHandler) Handle(event Event) {
	if event.Type != RestartedAfterPanicType {
		return
	}
	payload, ok := event.Payload.(WorkerRestartedAfterPanic)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error(), "type", event.Type)
		return
	}
	h.monitoring.IncrWorkerRestarts()
	h.log.Warn(fmt.Sprintf("Worker %s restarted after panic, total: %d",
		payload.WorkerName, h.monitoring.GetLatest().WorkerRestarts))
}
