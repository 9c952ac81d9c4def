// Package aggregator enables loosely coupled, in-process publish/subscribe messaging.
//
// Dispatch is synchronous: Publish returns once every matching subscriber ran.
// Subscribers registered under a name are invoked most-recently-added first so
// that later subscribers can intercept before earlier ones.
//
// The subscriber list is snapshotted before every pass, which makes Subscribe
// and Dispose safe to call from inside a running handler. The lock is never
// held while a callback runs.
package aggregator

import (
	"dreamweaver/errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Callback receives the published data.
type Callback func(data any)

type handler struct {
	tag      Tag
	callback Callback
}

type Aggregator struct {
	log    *slog.Logger
	mu     sync.Mutex
	byName map[string][]*handler
	byTag  []*handler
	failed atomic.Uint64
}

func New(log *slog.Logger) *Aggregator {
	return &Aggregator{
		log:    log,
		byName: make(map[string][]*handler),
	}
}

// Publish dispatches data to the subscribers matching the selector.
// A name selector reaches every subscription registered under that exact name.
// A tag selector reaches every tag subscription whose tag equals data's tag;
// untagged data reaches none of them.
func (a *Aggregator) Publish(sel Selector, data any) error {
	if !sel.valid() {
		return fmt.Errorf("%w: %s", errors.ErrInvalidSelector, sel)
	}

	if sel.IsName() {
		a.dispatch(a.snapshotName(sel.name), data)
		return nil
	}

	tagged, ok := data.(Tagged)
	if !ok {
		a.log.Debug("Untagged data published on a tag selector", "selector", sel.String())
		return nil
	}
	tag := tagged.Tag()
	subscribers := a.snapshotTag()
	matching := subscribers[:0]
	for _, h := range subscribers {
		if h.tag == tag {
			matching = append(matching, h)
		}
	}
	a.dispatch(matching, data)
	return nil
}

// PublishTagged is Publish with a selector derived from the payload's own tag.
func (a *Aggregator) PublishTagged(data Tagged) error {
	if data == nil {
		return fmt.Errorf("%w: nil payload", errors.ErrInvalidSelector)
	}
	return a.Publish(ByTag(data.Tag()), data)
}

// Subscribe registers callback for the selector.
// The returned Subscription removes exactly this registration when disposed.
func (a *Aggregator) Subscribe(sel Selector, callback Callback) (*Subscription, error) {
	return a.subscribe(sel, callback, func(_ *Subscription, cb Callback) Callback { return cb })
}

// SubscribeOnce is Subscribe, but the subscription disposes itself right before
// the first invocation. The callback runs at most once, even when the same event
// is published again from inside another handler of an in-flight pass.
func (a *Aggregator) SubscribeOnce(sel Selector, callback Callback) (*Subscription, error) {
	return a.subscribe(sel, callback, func(sub *Subscription, cb Callback) Callback {
		var fired atomic.Bool
		return func(data any) {
			if !fired.CompareAndSwap(false, true) {
				return
			}
			sub.Dispose()
			cb(data)
		}
	})
}

// Failures reports how many subscriber invocations panicked so far.
func (a *Aggregator) Failures() uint64 {
	return a.failed.Load()
}

func (a *Aggregator) subscribe(sel Selector, callback Callback, wrap func(*Subscription, Callback) Callback) (*Subscription, error) {
	if !sel.valid() {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidSelector, sel)
	}
	if callback == nil {
		return nil, fmt.Errorf("%w: nil callback for %s", errors.ErrInvalidPayload, sel)
	}

	h := &handler{tag: sel.tag}
	sub := &Subscription{dispose: func() { a.remove(sel, h) }}
	h.callback = wrap(sub, callback)

	a.mu.Lock()
	defer a.mu.Unlock()
	if sel.IsName() {
		a.byName[sel.name] = append(a.byName[sel.name], h)
	} else {
		a.byTag = append(a.byTag, h)
	}
	return sub, nil
}

func (a *Aggregator) remove(sel Selector, h *handler) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if sel.IsTag() {
		a.byTag = without(a.byTag, h)
		return
	}
	remaining := without(a.byName[sel.name], h)
	if len(remaining) == 0 {
		delete(a.byName, sel.name)
		return
	}
	a.byName[sel.name] = remaining
}

// without returns a new slice so snapshots taken earlier are never mutated.
func without(handlers []*handler, h *handler) []*handler {
	for i, candidate := range handlers {
		if candidate == h {
			out := make([]*handler, 0, len(handlers)-1)
			out = append(out, handlers[:i]...)
			return append(out, handlers[i+1:]...)
		}
	}
	return handlers
}

func (a *Aggregator) snapshotName(name string) []*handler {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*handler(nil), a.byName[name]...)
}

func (a *Aggregator) snapshotTag() []*handler {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*handler(nil), a.byTag...)
}

// dispatch invokes the snapshot in reverse insertion order.
func (a *Aggregator) dispatch(subscribers []*handler, data any) {
	for i := len(subscribers) - 1; i >= 0; i-- {
		a.invoke(subscribers[i], data)
	}
}

func (a *Aggregator) invoke(h *handler, data any) {
	defer func() {
		if r := recover(); r != nil {
			a.failed.Add(1)
			a.log.Error("Subscriber failed", "error", fmt.Sprint(r))
		}
	}()
	h.callback(data)
}
