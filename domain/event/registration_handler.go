package event

import (
	"dreamweaver/errors"
	"dreamweaver/observability"
	"log/slog"
)

// RegistrationHandler follows handshakes accepted or refused by the host.
type RegistrationHandler struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
}

func NewRegistrationHandler(log *slog.Logger, monitoring *observability.MonitoringManager) *RegistrationHandler {
	return &RegistrationHandler{log: log, monitoring: monitoring}
}

func (h RegistrationHandler) Handle(event Event) {
	switch event.Type {
	case ParticipantRegisteredType:
		payload, ok := event.Payload.(ParticipantRegistered)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error(), "type", event.Type)
			return
		}
		h.monitoring.IncrRegistered()
		if payload.Superseded {
			h.log.Warn("Participant registered again, previous channel closed",
				"participant_id", payload.ID, "origin", payload.Origin)
		}
	case HandshakeRejectedType:
		payload, ok := event.Payload.(HandshakeRejected)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error(), "type", event.Type)
			return
		}
		h.monitoring.IncrHandshakesRejected()
		h.log.Debug("Handshake rejected", "origin", payload.Origin, "reason", payload.Reason)
	}
}
