//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"teamchat/domain/event"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
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

// Snapshot is the full result set of a topic at a point in time.
// Items holds a typed slice ([]domain.Message, []domain.Typing, ...).
type Snapshot struct {
	Topic       event.Topic
	Items       any
	Fingerprint uint64
	At          time.Time
}

// SnapshotSink receives every snapshot of the topics it subscribed to.
type SnapshotSink interface {
	Consume(ctx context.Context, snapshot Snapshot) error
}

// SnapshotLoader computes the current result set of a topic.
type SnapshotLoader func(ctx context.Context, topic event.Topic) (any, error)

type IRegistry interface {
	Subscribe(subscriptionID string, topic event.Topic, sink SnapshotSink)
	Unsubscribe(subscriptionID string)
	GetSinks(topic event.Topic) []SnapshotSink
	Topics(kind event.Kind) []event.Topic
	Count() int
}

// Notifier is what write paths use to announce a change.
type Notifier interface {
	Notify(ctx context.Context, events ...event.DomainEvent)
}

// Subscriber opens live subscriptions. The returned func cancels it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic event.Topic, sink SnapshotSink) (func(), error)
}
