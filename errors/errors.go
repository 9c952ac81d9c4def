package errors

import "fmt"

var (
	ErrInvalidSelector     = fmt.Errorf("event channel/type was invalid")
	ErrChannelNotOpen      = fmt.Errorf("unable to publish message, there is no open channel")
	ErrDuplicateConnection = fmt.Errorf("client connector is already connected")
	ErrUnknownOrigin       = fmt.Errorf("origin is not present in the catalogue")
	ErrAlreadyInitialised  = fmt.Errorf("cannot initialise a new instance of the client connector as one already exists")
	ErrNotTransferable     = fmt.Errorf("event data cannot be transferred across a channel")
	ErrUndeclaredEvent     = fmt.Errorf("event is not declared in the sender interests")
	ErrInvalidHandshake    = fmt.Errorf("invalid handshake message")
	ErrChannelClosed       = fmt.Errorf("channel endpoint is closed")
	ErrInvalidCatalogue    = fmt.Errorf("invalid catalogue entry")
	ErrInvalidPayload      = fmt.Errorf("invalid payload")
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrChannelFull         = fmt.Errorf("channel outbox is full")
)
