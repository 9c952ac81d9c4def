package workers

import (
	"context"
	"dreamweaver/aggregator"
	"dreamweaver/domain/event"
	"log/slog"
)

// TelemetryWorker moves technical events produced outside the host loop
// (supervisor, samplers) onto the host aggregator, where handlers listen by tag.
type TelemetryWorker struct {
	log           *slog.Logger
	telemetryChan <-chan event.Event
	events        *aggregator.Aggregator
}

func NewTelemetryWorker(log *slog.Logger, telemetryChan <-chan event.Event, events *aggregator.Aggregator) *TelemetryWorker {
	return &TelemetryWorker{log: log, telemetryChan: telemetryChan, events: events}
}

func (w TelemetryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case evt := <-w.telemetryChan:
			if err := w.events.PublishTagged(evt); err != nil {
				w.log.Error("Unable to publish telemetry event", "type", evt.Type, "error", err)
			}
		}
	}
}
