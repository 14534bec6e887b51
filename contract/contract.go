//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"exchange-lab/domain/event"
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
// Workers exposing a Name() string method are named by it instead.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	if named, ok := w.(interface{ Name() string }); ok {
		return named.Name()
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Transport is one end of an ordered, point-to-point text channel.
// Receive blocks until a message arrives, the context ends (ctx.Err())
// or the opponent goes away (errors.ErrStreamClosed).
type Transport interface {
	Send(ctx context.Context, msg string) error
	Receive(ctx context.Context) (string, error)
	Close() error
}

type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}
