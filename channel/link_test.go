package channel

import (
	"context"
	"dreamweaver/contract"
	"dreamweaver/domain"
	"dreamweaver/mocks"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLocalLink_Connect_Transfers_Peer_Port(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	window := mocks.NewMockHostWindow(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var transferred contract.Endpoint
	// Given the host accepts the handshake
	window.EXPECT().
		PostMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, message domain.Event, transfer contract.Endpoint) error {
			origin, err := domain.OriginOf(message)
			req.NoError(err)
			req.Equal("http://localhost:3101", origin)
			transferred = transfer
			return nil
		}).
		Times(1)

	// When the participant connects
	retained, err := NewLocalLink(window).Connect(ctx, domain.NewHandshake("http://localhost:3101"))
	req.NoError(err)
	req.NotNil(transferred)

	// Then both ends of the same channel are in use
	received := make(chan domain.Event, 1)
	transferred.Start(ctx, func(e domain.Event) { received <- e })
	req.NoError(retained.Send(domain.NewEvent("test-message", "hello")))

	select {
	case e := <-received:
		req.Equal("hello", e.Data)
	case <-time.After(time.Second):
		req.Fail("host end never received the message")
	}
}

func TestLocalLink_Connect_Host_Refuses(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	window := mocks.NewMockHostWindow(ctrl)

	window.EXPECT().
		PostMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("host stopped")).
		Times(1)

	retained, err := NewLocalLink(window).Connect(context.Background(), domain.NewHandshake("http://localhost:3101"))
	req.Error(err)
	req.Nil(retained)
}
