// Package runtime hosts the participant registry and the interest router.
// All handshakes and inbound events are processed one at a time by Host.Run,
// in arrival order for any given channel.
package runtime

import (
	"context"
	"dreamweaver/aggregator"
	"dreamweaver/contract"
	"dreamweaver/domain"
	technical "dreamweaver/domain/event"
	"dreamweaver/errors"
	"dreamweaver/runtime/workers"
	"fmt"
	"log/slog"
)

type handshake struct {
	message  domain.Event
	transfer contract.Endpoint
}

type inbound struct {
	handshake *handshake
	from      domain.ParticipantID
	event     domain.Event
}

// Host is the coordinating context. It embeds its local Aggregator, on which
// it publishes technical events about registrations and routing.
type Host struct {
	*aggregator.Aggregator
	log      *slog.Logger
	origin   string
	registry *Registry
	router   *Router
	inbox    chan inbound
}

func NewHost(log *slog.Logger, origin string, registry *Registry, bufferSize int) *Host {
	events := aggregator.New(log.With("component", "host-events"))
	return &Host{
		Aggregator: events,
		log:        log.With("component", "host"),
		origin:     origin,
		registry:   registry,
		router:     NewRouter(log, registry, events),
		inbox:      make(chan inbound, bufferSize),
	}
}

func (h *Host) Origin() string { return h.origin }

func (h *Host) Registry() *Registry { return h.registry }

// NamedInbox exposes the inbox to the channel capacity worker.
func (h *Host) NamedInbox() workers.NamedChannel {
	return workers.NamedChannel{Name: "host_inbox", Channel: h.inbox}
}

// Load resolves the catalogue and replaces the registry content.
// Handshakes processed before Load are rejected as unknown origins.
func (h *Host) Load(ctx context.Context, catalogue contract.Catalogue) error {
	entries, err := catalogue.GetParticipants(ctx)
	if err != nil {
		return fmt.Errorf("catalogue lookup failed: %w", err)
	}
	h.registry.Load(entries)
	h.log.Info(fmt.Sprintf("%d participants loaded from the catalogue", len(entries)))
	return nil
}

// PostMessage receives a boundary message addressed to the host.
// Only the handshake is understood; it is queued for Run together with the
// transferred endpoint.
func (h *Host) PostMessage(ctx context.Context, message domain.Event, transfer contract.Endpoint) error {
	if message.Name != domain.HandshakeEventName || transfer == nil {
		if transfer != nil {
			_ = transfer.Close()
		}
		return fmt.Errorf("%w: %q", errors.ErrInvalidHandshake, message.Name)
	}
	select {
	case h.inbox <- inbound{handshake: &handshake{message: message, transfer: transfer}}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes handshakes and inbound events until ctx is done.
func (h *Host) Run(ctx context.Context) error {
	h.log.Info("Host listening", "origin", h.origin)
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("Context done, stopping host loop")
			return nil
		case in := <-h.inbox:
			if in.handshake != nil {
				h.handshake(ctx, *in.handshake)
				continue
			}
			// Errors are logged and published by the router.
			_, _ = h.router.Route(in.from, in.event)
		}
	}
}

// Close tears down every live channel.
func (h *Host) Close() {
	for _, record := range h.registry.Snapshot() {
		if record.Endpoint != nil {
			_ = record.Endpoint.Close()
		}
	}
}

func (h *Host) handshake(ctx context.Context, hs handshake) {
	origin, err := domain.OriginOf(hs.message)
	if err != nil {
		h.rejectHandshake(hs.transfer, origin, err)
		return
	}

	record, superseded, err := h.registry.Register(origin, hs.transfer)
	if err != nil {
		h.rejectHandshake(hs.transfer, origin, err)
		return
	}
	if superseded != nil {
		_ = superseded.Close()
	}

	id := record.Metadata.ID
	hs.transfer.Start(ctx, func(e domain.Event) {
		select {
		case h.inbox <- inbound{from: id, event: e}:
		case <-ctx.Done():
		}
	})

	h.log.Info("Participant registered", "participant_id", id, "name", record.Metadata.DisplayName, "origin", origin)
	h.publish(technical.New(technical.ParticipantRegisteredType,
		technical.ParticipantRegistered{ID: id, Origin: origin, Superseded: superseded != nil}))
}

func (h *Host) rejectHandshake(transfer contract.Endpoint, origin string, reason error) {
	h.log.Warn("Handshake rejected", "origin", origin, "error", reason)
	_ = transfer.Close()
	h.publish(technical.New(technical.HandshakeRejectedType,
		technical.HandshakeRejected{Origin: origin, Reason: reason.Error()}))
}

func (h *Host) publish(evt technical.Event) {
	if err := h.PublishTagged(evt); err != nil {
		h.log.Error("Unable to publish technical event", "type", evt.Type, "error", err)
	}
}
