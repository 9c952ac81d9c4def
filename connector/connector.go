package connector

import (
	"context"
	"dreamweaver/aggregator"
	"dreamweaver/contract"
	"dreamweaver/domain"
	"dreamweaver/errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Connector moves from unconnected to connected exactly once, on Ready.
// Events received from the host are republished by name on the local Aggregator.
type Connector struct {
	log    *slog.Logger
	id     uuid.UUID
	origin string
	host   string
	link   contract.HostLink
	events *aggregator.Aggregator

	mu       sync.Mutex
	endpoint contract.Endpoint
}

func (c *Connector) ID() uuid.UUID { return c.id }

func (c *Connector) Origin() string { return c.origin }

// Ready performs the handshake: a new channel is created, one end travels
// to the host with the "client:loaded" message and the other one is kept here.
// ctx bounds the life of the channel: once it is done the channel is closed.
func (c *Connector) Ready(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.endpoint != nil {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateConnection, c.origin)
	}

	endpoint, err := c.link.Connect(ctx, domain.NewHandshake(c.origin))
	if err != nil {
		return fmt.Errorf("handshake with %s failed: %w", c.host, err)
	}
	endpoint.Start(ctx, c.receive)
	c.endpoint = endpoint
	c.log.Info("Connected to host", "origin", c.origin, "host", c.host)
	return nil
}

// Connected reports whether Ready succeeded.
func (c *Connector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint != nil
}

// Publish sends the event to the host, which routes it to the interested participants.
func (c *Connector) Publish(e domain.Event) error {
	c.mu.Lock()
	endpoint := c.endpoint
	c.mu.Unlock()
	if endpoint == nil {
		return errors.ErrChannelNotOpen
	}
	if e.Version == "" {
		e.Version = domain.Version
	}
	return endpoint.Send(e)
}

func (c *Connector) Subscribe(name string, callback aggregator.Callback) (*aggregator.Subscription, error) {
	return c.events.Subscribe(aggregator.ByName(name), callback)
}

func (c *Connector) SubscribeOnce(name string, callback aggregator.Callback) (*aggregator.Subscription, error) {
	return c.events.SubscribeOnce(aggregator.ByName(name), callback)
}

func (c *Connector) Events() *aggregator.Aggregator { return c.events }

// Close releases the channel. The connector cannot be made ready again.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.endpoint == nil {
		return nil
	}
	return c.endpoint.Close()
}

func (c *Connector) receive(e domain.Event) {
	if err := c.events.Publish(aggregator.ByName(e.Name), e.Data); err != nil {
		c.log.Warn("Unable to dispatch received event", "event", e.Name, "error", err)
	}
}
