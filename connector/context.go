// Package connector is the participant side of the bus: it performs the
// handshake with the host and bridges the channel to a local Aggregator.
package connector

import (
	"dreamweaver/aggregator"
	"dreamweaver/contract"
	"dreamweaver/errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Context owns the single Connector of a participant process and its Aggregator.
// It is built once at startup and passed to whatever publishes or subscribes.
type Context struct {
	log    *slog.Logger
	mu     sync.Mutex
	events *aggregator.Aggregator
	client *Connector
}

func NewContext(log *slog.Logger) *Context {
	return &Context{log: log, events: aggregator.New(log.With("component", "participant-events"))}
}

// Init creates the Connector for origin, addressing the host through link.
// A Context accepts a single Init.
func (c *Context) Init(origin, host string, link contract.HostLink) (*Connector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil, errors.ErrAlreadyInitialised
	}
	if origin == "" || host == "" || link == nil {
		return nil, fmt.Errorf("%w: origin=%q host=%q", errors.ErrInvalidHandshake, origin, host)
	}
	c.client = &Connector{
		log:    c.log.With("component", "connector", "instance", uuid.NewString()),
		id:     uuid.New(),
		origin: origin,
		host:   host,
		link:   link,
		events: c.events,
	}
	return c.client, nil
}

// Connector returns the initialised connector, or nil before Init.
func (c *Context) Connector() *Connector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

func (c *Context) Events() *aggregator.Aggregator { return c.events }
