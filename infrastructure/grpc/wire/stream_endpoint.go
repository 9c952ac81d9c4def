package wire

import (
	"context"
	"dreamweaver/domain"
	"dreamweaver/errors"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"google.golang.org/protobuf/types/known/structpb"
)

// Stream is the part of grpc.ServerStream and grpc.ClientStream the endpoint needs.
type Stream interface {
	Context() context.Context
	SendMsg(m any) error
	RecvMsg(m any) error
}

// StreamEndpoint adapts a gRPC stream to a channel endpoint.
// Send never blocks: events wait in a bounded outbox drained by Serve,
// and are refused with ErrChannelFull when the outbox is full.
type StreamEndpoint struct {
	log     *slog.Logger
	stream  Stream
	outbox  chan *structpb.Struct
	closed  chan struct{}
	once    sync.Once
	started atomic.Bool
	hungUp  atomic.Bool

	mu  sync.Mutex
	err error
}

func NewStreamEndpoint(log *slog.Logger, stream Stream, outboxSize int) *StreamEndpoint {
	return &StreamEndpoint{
		log:    log,
		stream: stream,
		outbox: make(chan *structpb.Struct, outboxSize),
		closed: make(chan struct{}),
	}
}

func (e *StreamEndpoint) Send(evt domain.Event) error {
	if e.isClosed() {
		return errors.ErrChannelClosed
	}
	msg, err := ToStruct(evt)
	if err != nil {
		return err
	}
	select {
	case e.outbox <- msg:
		return nil
	default:
		return errors.ErrChannelFull
	}
}

// Start reads the stream from a dedicated goroutine and hands every event to
// onMessage, in order. Only the first call has an effect.
func (e *StreamEndpoint) Start(ctx context.Context, onMessage func(evt domain.Event)) {
	if !e.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		for {
			var msg structpb.Struct
			if err := e.stream.RecvMsg(&msg); err != nil {
				e.fail(err)
				return
			}
			evt, err := FromStruct(&msg)
			if err != nil {
				e.log.Warn("Malformed event dropped", "error", err)
				continue
			}
			if e.isClosed() || ctx.Err() != nil {
				return
			}
			onMessage(evt)
		}
	}()
}

// Serve writes the outbox to the stream until the endpoint is closed, the
// stream fails or ctx is done. A peer that hung up cleanly is not an error.
func (e *StreamEndpoint) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			_ = e.Close()
			return ctx.Err()
		case <-e.stream.Context().Done():
			_ = e.Close()
			return e.stream.Context().Err()
		case <-e.closed:
			return e.Err()
		case msg := <-e.outbox:
			if err := e.stream.SendMsg(msg); err != nil {
				e.fail(err)
				return err
			}
		}
	}
}

func (e *StreamEndpoint) Close() error {
	e.once.Do(func() { close(e.closed) })
	return nil
}

// Err returns the stream failure that closed the endpoint, if any.
func (e *StreamEndpoint) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// HungUp reports whether the peer ended the stream cleanly.
func (e *StreamEndpoint) HungUp() bool { return e.hungUp.Load() }

func (e *StreamEndpoint) fail(err error) {
	if stderrors.Is(err, io.EOF) {
		e.hungUp.Store(true)
	} else {
		e.mu.Lock()
		if e.err == nil {
			e.err = err
		}
		e.mu.Unlock()
		e.log.Debug("Stream ended", "error", err)
	}
	_ = e.Close()
}

func (e *StreamEndpoint) isClosed() bool {
	select {
	case <-e.closed:
		return true
	default:
		return false
	}
}
