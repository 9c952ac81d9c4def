// Package channel provides the in-process rendition of a participant channel:
// two entangled ports, each one delivering what the other sends.
package channel

import (
	"context"
	"dreamweaver/domain"
	"dreamweaver/errors"
	"sync"
	"sync/atomic"
)

// Port is one end of a Pipe. Its queue is unbounded, so Send never blocks;
// messages wait in the queue until Start is called.
type Port struct {
	mu      sync.Mutex
	queue   []domain.Event
	signal  chan struct{}
	closed  chan struct{}
	once    sync.Once
	started atomic.Bool
	peer    *Port
}

// Pipe creates a new channel and returns its two ports.
func Pipe() (*Port, *Port) {
	port1, port2 := newPort(), newPort()
	port1.peer, port2.peer = port2, port1
	return port1, port2
}

func newPort() *Port {
	return &Port{
		signal: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Send delivers a copy of the event to the peer port.
func (p *Port) Send(e domain.Event) error {
	if p.isClosed() {
		return errors.ErrChannelClosed
	}
	cloned, err := e.Clone()
	if err != nil {
		return err
	}
	return p.peer.enqueue(cloned)
}

// Start begins delivering queued and future messages to onMessage, in order,
// from a dedicated goroutine. Only the first call has an effect.
// The port is closed once ctx is done, so the peer stops queueing for nobody.
func (p *Port) Start(ctx context.Context, onMessage func(e domain.Event)) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		for {
			for _, e := range p.drain() {
				if p.isClosed() {
					return
				}
				onMessage(e)
			}
			select {
			case <-p.signal:
			case <-p.closed:
				return
			case <-ctx.Done():
				_ = p.Close()
				return
			}
		}
	}()
}

// Close disentangles the pipe: both ports stop delivering and reject sends.
func (p *Port) Close() error {
	p.close()
	p.peer.close()
	return nil
}

// Len reports how many messages are waiting to be delivered.
func (p *Port) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Port) enqueue(e domain.Event) error {
	p.mu.Lock()
	if p.isClosed() {
		p.mu.Unlock()
		return errors.ErrChannelClosed
	}
	p.queue = append(p.queue, e)
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
	return nil
}

func (p *Port) drain() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	batch := p.queue
	p.queue = nil
	return batch
}

func (p *Port) close() {
	p.once.Do(func() {
		p.mu.Lock()
		close(p.closed)
		p.queue = nil
		p.mu.Unlock()
	})
}

func (p *Port) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}
