package runtime

import (
	"dreamweaver/aggregator"
	"dreamweaver/domain"
	technical "dreamweaver/domain/event"
	"dreamweaver/errors"
	"fmt"
	"log/slog"
)

// Router forwards every inbound event to the other registered participants
// that declared an interest in it. It reads the registry, never writes it.
type Router struct {
	log      *slog.Logger
	registry *Registry
	events   *aggregator.Aggregator
}

func NewRouter(log *slog.Logger, registry *Registry, events *aggregator.Aggregator) *Router {
	return &Router{log: log.With("component", "router"), registry: registry, events: events}
}

// Route delivers e, received on the channel of senderID, and returns the
// participants it was forwarded to. The sender never receives its own event
// and each recipient receives at most one copy.
func (r *Router) Route(senderID domain.ParticipantID, e domain.Event) ([]domain.ParticipantID, error) {
	sender, ok := r.registry.Lookup(senderID)
	if !ok {
		r.reject(senderID, e, errors.ErrUnknownOrigin)
		return nil, fmt.Errorf("%w: sender %s", errors.ErrUnknownOrigin, senderID)
	}
	if !sender.Metadata.IsInterestedIn(e.Name) {
		r.reject(senderID, e, errors.ErrUndeclaredEvent)
		return nil, fmt.Errorf("%w: %s from %s", errors.ErrUndeclaredEvent, e.Name, senderID)
	}

	var delivered []domain.ParticipantID
	for _, recipient := range r.registry.FindInterested(e.Name, senderID) {
		if recipient.Endpoint == nil {
			continue
		}
		id := recipient.Metadata.ID
		r.log.Debug("Dispatching", "event", e.Name, "from", senderID, "to", recipient.Metadata.DisplayName)
		if err := recipient.Endpoint.Send(domain.NewEvent(e.Name, e.Data)); err != nil {
			r.log.Warn("Unable to forward event", "event", e.Name, "to", id, "error", err)
			r.publish(technical.New(technical.DeliveryFailedType,
				technical.DeliveryFailed{Name: e.Name, To: id, Reason: err.Error()}))
			continue
		}
		delivered = append(delivered, id)
		r.publish(technical.New(technical.EventForwardedType,
			technical.EventForwarded{Name: e.Name, From: senderID, To: id}))
	}
	return delivered, nil
}

func (r *Router) reject(senderID domain.ParticipantID, e domain.Event, reason error) {
	r.log.Warn("Event dropped", "event", e.Name, "from", senderID, "reason", reason)
	r.publish(technical.New(technical.EventRejectedType,
		technical.EventRejected{Name: e.Name, From: senderID, Reason: reason.Error()}))
}

func (r *Router) publish(evt technical.Event) {
	if err := r.events.PublishTagged(evt); err != nil {
		r.log.Error("Unable to publish technical event", "type", evt.Type, "error", err)
	}
}
