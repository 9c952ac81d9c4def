// Package event holds the technical events the host publishes about itself.
// They travel on the host's own aggregator and are dispatched by type tag.
package event

import (
	"dreamweaver/aggregator"
	"time"
)

type Type string

type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

func New(t Type, payload any) Event {
	return Event{Type: t, CreatedAt: time.Now().UTC(), Payload: payload}
}

func (e Event) Tag() aggregator.Tag {
	return aggregator.Tag(e.Type)
}
