package event

import (
	"dreamweaver/aggregator"
	"dreamweaver/observability"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newAttached(t *testing.T) (*aggregator.Aggregator, *observability.MonitoringManager) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	agg := aggregator.New(log)
	monitoring := observability.NewMonitoringManager(log)

	_, err := Attach(agg, NewRegistrationHandler(log, monitoring), ParticipantRegisteredType, HandshakeRejectedType)
	req.NoError(err)
	_, err = Attach(agg, NewRoutingHandler(log, monitoring), EventForwardedType, EventRejectedType, DeliveryFailedType)
	req.NoError(err)
	_, err = Attach(agg, NewWorkerRestartedAfterPanicHandler(log, monitoring), RestartedAfterPanicType)
	req.NoError(err)
	_, err = Attach(agg, NewChannelCapacityHandler(log, monitoring, 2), ChannelCapacityType)
	req.NoError(err)
	return agg, monitoring
}

func TestHandlers_Update_Monitoring_By_Tag(t *testing.T) {
	req := require.New(t)
	agg, monitoring := newAttached(t)

	// Given one event of each kind published by tag
	for _, evt := range []Event{
		New(ParticipantRegisteredType, ParticipantRegistered{ID: "1", Origin: "http://localhost:3101"}),
		New(ParticipantRegisteredType, ParticipantRegistered{ID: "1", Origin: "http://localhost:3101", Superseded: true}),
		New(HandshakeRejectedType, HandshakeRejected{Origin: "http://evil.example", Reason: "unknown"}),
		New(EventForwardedType, EventForwarded{Name: "x", From: "1", To: "3"}),
		New(EventRejectedType, EventRejected{Name: "y", From: "1", Reason: "undeclared"}),
		New(DeliveryFailedType, DeliveryFailed{Name: "x", To: "2", Reason: "closed"}),
		New(RestartedAfterPanicType, WorkerRestartedAfterPanic{WorkerName: "Host"}),
		New(ChannelCapacityType, ChannelCapacity{ChannelName: "host_inbox", Capacity: 10, Length: 9}),
	} {
		req.NoError(agg.PublishTagged(evt))
	}

	// Then every counter moved exactly as published
	stats := monitoring.GetLatest()
	req.Equal(uint64(2), stats.Registered)
	req.Equal(uint64(1), stats.HandshakesRejected)
	req.Equal(uint64(1), stats.Forwarded)
	req.Equal(uint64(1), stats.Rejected)
	req.Equal(uint64(1), stats.DeliveryFailed)
	req.Equal(uint64(1), stats.WorkerRestarts)
	req.Len(stats.Channels, 1)
	req.Equal("host_inbox", stats.Channels[0].Name)
	req.Equal(9, stats.Channels[0].Length)
}

func TestHandlers_Invalid_Payload_Is_Ignored(t *testing.T) {
	req := require.New(t)
	agg, monitoring := newAttached(t)

	req.NoError(agg.PublishTagged(New(HandshakeRejectedType, "not a payload")))
	req.NoError(agg.PublishTagged(New(RestartedAfterPanicType, 42)))

	stats := monitoring.GetLatest()
	req.Zero(stats.HandshakesRejected)
	req.Zero(stats.WorkerRestarts)
	req.Zero(agg.Failures())
}

func TestAttach_Wrong_Data_Is_Isolated(t *testing.T) {
	req := require.New(t)
	agg, monitoring := newAttached(t)

	// A raw publish on the tag with a foreign type panics inside the subscriber only
	req.NoError(agg.Publish(aggregator.ByTag(aggregator.Tag(EventForwardedType)), foreign{}))

	req.Zero(monitoring.GetLatest().Forwarded)
	req.Equal(uint64(1), agg.Failures())
}

type foreign struct{}

func (foreign) Tag() aggregator.Tag { return aggregator.Tag(EventForwardedType) }

func TestEvent_Tag(t *testing.T) {
	req := require.New(t)
	evt := New(EventForwardedType, nil)

	req.Equal(aggregator.Tag("EVENT_FORWARDED"), evt.Tag())
	req.False(evt.CreatedAt.IsZero())
}
