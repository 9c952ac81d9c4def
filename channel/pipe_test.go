package channel

import (
	"context"
	"dreamweaver/domain"
	"dreamweaver/errors"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func collect(ctx context.Context, p *Port, n int) <-chan []domain.Event {
	out := make(chan []domain.Event, 1)
	var received []domain.Event
	p.Start(ctx, func(e domain.Event) {
		received = append(received, e)
		if len(received) == n {
			out <- received
		}
	})
	return out
}

func TestPipe_Delivers_In_Order_After_Start(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port1, port2 := Pipe()

	// Given messages sent before the receiving port is started
	for _, data := range []string{"a", "b", "c"} {
		req.NoError(port1.Send(domain.NewEvent("test-message", data)))
	}
	req.Equal(3, port2.Len())

	// When it starts
	done := collect(ctx, port2, 3)

	// Then every message arrives in send order
	select {
	case received := <-done:
		req.Equal("a", received[0].Data)
		req.Equal("b", received[1].Data)
		req.Equal("c", received[2].Data)
	case <-time.After(time.Second):
		req.Fail("messages were never delivered")
	}
}

func TestPipe_Is_Bidirectional(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port1, port2 := Pipe()

	toPort1 := collect(ctx, port1, 1)
	toPort2 := collect(ctx, port2, 1)

	req.NoError(port1.Send(domain.NewEvent("ping", nil)))
	req.NoError(port2.Send(domain.NewEvent("pong", nil)))

	select {
	case received := <-toPort2:
		req.Equal("ping", received[0].Name)
	case <-time.After(time.Second):
		req.Fail("ping never arrived")
	}
	select {
	case received := <-toPort1:
		req.Equal("pong", received[0].Name)
	case <-time.After(time.Second):
		req.Fail("pong never arrived")
	}
}

func TestPipe_Send_Copies_Data(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port1, port2 := Pipe()

	data := map[string]any{"patient": "42"}
	req.NoError(port1.Send(domain.NewEvent("patient-context:changed", data)))

	// Mutating the sender copy after sending does not leak through the channel
	data["patient"] = "43"

	select {
	case received := <-collect(ctx, port2, 1):
		req.Equal(map[string]any{"patient": "42"}, received[0].Data)
	case <-time.After(time.Second):
		req.Fail("message never arrived")
	}
}

func TestPipe_Send_Rejects_Untransferable_Data(t *testing.T) {
	req := require.New(t)
	port1, _ := Pipe()

	err := port1.Send(domain.NewEvent("x", func() {}))
	req.ErrorIs(err, errors.ErrNotTransferable)
}

func TestPipe_Close_Closes_Both_Ends(t *testing.T) {
	req := require.New(t)
	port1, port2 := Pipe()

	req.NoError(port2.Close())
	req.NoError(port2.Close())

	req.ErrorIs(port1.Send(domain.NewEvent("x", nil)), errors.ErrChannelClosed)
	req.ErrorIs(port2.Send(domain.NewEvent("x", nil)), errors.ErrChannelClosed)
}

func TestPipe_Start_Context_Done_Closes_Channel(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	port1, port2 := Pipe()

	// Given a port listening with a short-lived context
	port2.Start(ctx, func(domain.Event) {})

	// When the context ends
	<-ctx.Done()

	// Then the peer can no longer queue events nobody will read
	req.Eventually(func() bool {
		return stderrors.Is(port1.Send(domain.NewEvent("x", nil)), errors.ErrChannelClosed)
	}, time.Second, 5*time.Millisecond)
	req.Zero(port2.Len())
}
