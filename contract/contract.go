//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"dreamweaver/domain"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Endpoint is one side of a participant channel.
// Messages received before Start are buffered and delivered once started.
type Endpoint interface {
	Send(e domain.Event) error
	Start(ctx context.Context, onMessage func(e domain.Event))
	Close() error
}

// HostLink creates a channel, hands one endpoint to the host together with the
// handshake message and returns the endpoint retained by the participant.
type HostLink interface {
	Connect(ctx context.Context, handshake domain.Event) (Endpoint, error)
}

// HostWindow receives boundary messages addressed to the host,
// together with the endpoint transferred by the sender.
type HostWindow interface {
	PostMessage(ctx context.Context, message domain.Event, transfer Endpoint) error
}

// Catalogue is the authoritative list of participants and their interests.
type Catalogue interface {
	GetParticipants(ctx context.Context) ([]domain.ParticipantMetadata, error)
}
