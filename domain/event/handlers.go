package event

import (
	"dreamweaver/aggregator"
	"dreamweaver/errors"
	"fmt"
)

// Handler Each kind of event has his own handler
// Based on the Chain of responsibility pattern
type Handler interface {
	Handle(event Event)
}

// Attach subscribes the handler, by type tag, to every given event type.
func Attach(agg *aggregator.Aggregator, h Handler, types ...Type) ([]*aggregator.Subscription, error) {
	subs := make([]*aggregator.Subscription, 0, len(types))
	for _, t := range types {
		sub, err := agg.Subscribe(aggregator.ByTag(aggregator.Tag(t)), func(data any) {
			evt, ok := data.(Event)
			if !ok {
				panic(fmt.Errorf("%w: %T", errors.ErrInvalidPayload, data))
			}
			h.Handle(evt)
		})
		if err != nil {
			for _, s := range subs {
				s.Dispose()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
