package event

import (
	"dreamweaver/errors"
	"dreamweaver/observability"
	"log/slog"
)

// RoutingHandler counts forwarded, rejected and undelivered events.
type RoutingHandler struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
}

func NewRoutingHandler(log *slog.Logger, monitoring *observability.MonitoringManager) *RoutingHandler {
	return &RoutingHandler{log: log, monitoring: monitoring}
}

func (h RoutingHandler) Handle(event Event) {
	switch event.Type {
	case EventForwardedType:
		h.monitoring.IncrForwarded()
	case EventRejectedType:
		payload, ok := event.Payload.(EventRejected)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error(), "type", event.Type)
			return
		}
		h.monitoring.IncrRejected()
		h.log.Debug("Event rejected", "event", payload.Name, "from", payload.From, "reason", payload.Reason)
	case DeliveryFailedType:
		payload, ok := event.Payload.(DeliveryFailed)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error(), "type", event.Type)
			return
		}
		h.monitoring.IncrDeliveryFailed()
		h.log.Debug("Delivery failed", "event", payload.Name, "to", payload.To, "reason", payload.Reason)
	}
}
