package event

import (
	"dreamweaver/domain"
)

const (
	ParticipantRegisteredType Type = "PARTICIPANT_REGISTERED"
	HandshakeRejectedType     Type = "HANDSHAKE_REJECTED"
	EventForwardedType        Type = "EVENT_FORWARDED"
	EventRejectedType         Type = "EVENT_REJECTED"
	DeliveryFailedType        Type = "DELIVERY_FAILED"
	RestartedAfterPanicType   Type = "WORKER_RESTARTED_AFTER_PANIC"
	ChannelCapacityType       Type = "CHANNEL_CAPACITY"
)

type ParticipantRegistered struct {
	ID         domain.ParticipantID
	Origin     string
	Superseded bool
}

type HandshakeRejected struct {
	Origin string
	Reason string
}

type EventForwarded struct {
	Name string
	From domain.ParticipantID
	To   domain.ParticipantID
}

type EventRejected struct {
	Name   string
	From   domain.ParticipantID
	Reason string
}

type DeliveryFailed struct {
	Name   string
	To     domain.ParticipantID
	Reason string
}

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}
