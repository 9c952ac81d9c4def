package channel

import (
	"context"
	"dreamweaver/contract"
	"dreamweaver/domain"
)

// LocalLink connects a participant to a host living in the same process.
type LocalLink struct {
	window contract.HostWindow
}

func NewLocalLink(window contract.HostWindow) *LocalLink {
	return &LocalLink{window: window}
}

// Connect creates a Pipe, posts the handshake to the host with the second port
// and returns the first one.
func (l *LocalLink) Connect(ctx context.Context, handshake domain.Event) (contract.Endpoint, error) {
	port1, port2 := Pipe()

	message, err := handshake.Clone()
	if err != nil {
		return nil, err
	}
	if err := l.window.PostMessage(ctx, message, port2); err != nil {
		_ = port1.Close()
		return nil, err
	}
	return port1, nil
}
