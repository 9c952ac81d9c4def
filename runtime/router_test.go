package runtime

import (
	"dreamweaver/aggregator"
	"dreamweaver/domain"
	technical "dreamweaver/domain/event"
	"dreamweaver/errors"
	"dreamweaver/mocks"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type routerFixture struct {
	registry  *Registry
	router    *Router
	technical []technical.Event
}

func newRouterFixture(t *testing.T) *routerFixture {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	events := aggregator.New(log)
	f := &routerFixture{registry: NewRegistry()}
	f.router = NewRouter(log, f.registry, events)
	for _, typ := range []technical.Type{
		technical.EventForwardedType, technical.EventRejectedType, technical.DeliveryFailedType,
	} {
		_, err := events.Subscribe(aggregator.ByTag(aggregator.Tag(typ)), func(data any) {
			f.technical = append(f.technical, data.(technical.Event))
		})
		require.NoError(t, err)
	}
	f.registry.Load(sampleEntries())
	return f
}

func TestRouter_Route_Only_To_Other_Interested_Registered(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newRouterFixture(t)
	sender, recipient := mocks.NewMockEndpoint(ctrl), mocks.NewMockEndpoint(ctrl)

	// Given 1 and 3 registered, both interested in x
	_, _, err := f.registry.Register("http://localhost:3101", sender)
	req.NoError(err)
	_, _, err = f.registry.Register("http://localhost:3103", recipient)
	req.NoError(err)

	// Then only 3 receives, with the host version stamped
	recipient.EXPECT().
		Send(domain.Event{Name: "x", Version: domain.Version, Data: "payload"}).
		Return(nil).
		Times(1)
	sender.EXPECT().Send(gomock.Any()).Times(0)

	// When 1 publishes x
	delivered, err := f.router.Route("1", domain.Event{Name: "x", Version: "9.9.9", Data: "payload"})

	req.NoError(err)
	req.Equal([]domain.ParticipantID{"3"}, delivered)
	req.Len(f.technical, 1)
	req.Equal(technical.EventForwarded{Name: "x", From: "1", To: "3"}, f.technical[0].Payload)
}

func TestRouter_Route_Skips_Unregistered(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newRouterFixture(t)

	// Given only the sender is registered
	_, _, err := f.registry.Register("http://localhost:3101", mocks.NewMockEndpoint(ctrl))
	req.NoError(err)

	delivered, err := f.router.Route("1", domain.NewEvent("x", nil))

	req.NoError(err)
	req.Empty(delivered)
	req.Empty(f.technical)
}

func TestRouter_Route_Undeclared_Event_Is_Dropped(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newRouterFixture(t)
	other := mocks.NewMockEndpoint(ctrl)
	_, _, err := f.registry.Register("http://localhost:3101", mocks.NewMockEndpoint(ctrl))
	req.NoError(err)
	_, _, err = f.registry.Register("http://localhost:3102", other)
	req.NoError(err)
	other.EXPECT().Send(gomock.Any()).Times(0)

	// When 1 publishes y which it never declared
	delivered, err := f.router.Route("1", domain.NewEvent("y", nil))

	// Then nobody receives it, even if 2 is interested
	req.ErrorIs(err, errors.ErrUndeclaredEvent)
	req.Empty(delivered)
	req.Len(f.technical, 1)
	req.Equal(technical.EventRejectedType, f.technical[0].Type)
}

func TestRouter_Route_Unknown_Sender(t *testing.T) {
	req := require.New(t)
	f := newRouterFixture(t)

	_, err := f.router.Route("404", domain.NewEvent("x", nil))

	req.ErrorIs(err, errors.ErrUnknownOrigin)
	req.Len(f.technical, 1)
	req.Equal(technical.EventRejectedType, f.technical[0].Type)
}

func TestRouter_Route_Delivery_Failure_Does_Not_Stop_Others(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newRouterFixture(t)
	f.registry.Load([]domain.ParticipantMetadata{
		participant("1", "http://localhost:3101", "x"),
		participant("2", "http://localhost:3102", "x"),
		participant("3", "http://localhost:3103", "x"),
	})
	broken, healthy := mocks.NewMockEndpoint(ctrl), mocks.NewMockEndpoint(ctrl)
	_, _, err := f.registry.Register("http://localhost:3101", mocks.NewMockEndpoint(ctrl))
	req.NoError(err)
	_, _, err = f.registry.Register("http://localhost:3102", broken)
	req.NoError(err)
	_, _, err = f.registry.Register("http://localhost:3103", healthy)
	req.NoError(err)

	broken.EXPECT().Send(gomock.Any()).Return(fmt.Errorf("%w", errors.ErrChannelClosed)).Times(1)
	healthy.EXPECT().Send(gomock.Any()).Return(nil).Times(1)

	delivered, err := f.router.Route("1", domain.NewEvent("x", nil))

	req.NoError(err)
	req.Equal([]domain.ParticipantID{"3"}, delivered)
	req.Len(f.technical, 2)
	req.Equal(technical.DeliveryFailedType, f.technical[0].Type)
	req.Equal(technical.EventForwardedType, f.technical[1].Type)
}
