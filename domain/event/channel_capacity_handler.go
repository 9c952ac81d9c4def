package event

import (
	"dreamweaver/errors"
	"dreamweaver/observability"
	"fmt"
	"log/slog"
)

// ChannelCapacityHandler records the sampled usage of internal channels
// and warns when one of them is close to full.
type ChannelCapacityHandler struct {
	log                  *slog.Logger
	monitoring           *observability.MonitoringManager
	lowCapacityThreshold int
}

func NewChannelCapacityHandler(log *slog.Logger, monitoring *observability.MonitoringManager, lowCapacityThreshold int) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, monitoring: monitoring, lowCapacityThreshold: lowCapacityThreshold}
}

func (h ChannelCapacityHandler) Handle(event Event) {
	if event.Type != ChannelCapacityType {
		return
	}
	payload, ok := event.Payload.(ChannelCapacity)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error(), "type", event.Type)
		return
	}
	h.monitoring.UpdateChannel(payload.ChannelName, payload.Length, payload.Capacity)
	if payload.Capacity <= 0 {
		// In case of unbuffered channel
		return
	}
	capacityLeft := payload.Capacity - payload.Length
	if capacityLeft <= h.lowCapacityThreshold {
		h.log.Warn(fmt.Sprintf("Channel %s capacity left : %d", payload.ChannelName, capacityLeft))
	}
}
