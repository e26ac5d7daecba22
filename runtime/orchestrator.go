// Package runtime turns change events into live snapshots for subscribers.
// It owns the event shards, the supervised workers and the registry of
// subscriptions; it holds no business rules.
package runtime

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"teamchat/contract"
	"teamchat/domain/event"
	"teamchat/errors"
	"teamchat/runtime/workers"
	"time"

	"github.com/google/uuid"
)

type Orchestrator struct {
	mu          sync.RWMutex
	log         *slog.Logger
	supervisor  contract.ISupervisor
	registry    contract.IRegistry
	loaders     map[event.Kind]contract.SnapshotLoader
	shards      []chan event.DomainEvent
	extra       []contract.Worker
	sinkTimeout time.Duration
}

// NewOrchestrator creates numWorkers event shards. Events of the same topic
// always land on the same shard, so snapshots of a topic are produced one
// at a time and in event order.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, numWorkers, bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	shards := make([]chan event.DomainEvent, numWorkers)
	for i := range shards {
		shards[i] = make(chan event.DomainEvent, bufferSize)
	}
	return &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		loaders:     make(map[event.Kind]contract.SnapshotLoader),
		shards:      shards,
		sinkTimeout: sinkTimeout,
	}
}

// RegisterLoader sets how snapshots of a topic kind are computed.
func (o *Orchestrator) RegisterLoader(kind event.Kind, loader contract.SnapshotLoader) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaders[kind] = loader
}

func (o *Orchestrator) loader(kind event.Kind) (contract.SnapshotLoader, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	loader, ok := o.loaders[kind]
	return loader, ok
}

// Add registers side workers started with the fan-out workers.
func (o *Orchestrator) Add(workers ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extra = append(o.extra, workers...)
}

func (o *Orchestrator) shard(topic event.Topic) chan event.DomainEvent {
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic.String()))
	return o.shards[h.Sum32()%uint32(len(o.shards))]
}

// Notify enqueues events for fan-out. It waits for room in the shard and
// gives up only when ctx is done, in which case the change reaches
// subscribers with the next event of the same topic.
func (o *Orchestrator) Notify(ctx context.Context, events ...event.DomainEvent) {
	for _, evt := range events {
		select {
		case o.shard(evt.Topic()) <- evt:
		case <-ctx.Done():
			o.log.Warn("Event dropped, context done", "topic", evt.Topic().String(), "error", ctx.Err())
			return
		}
	}
}

// Subscribe registers sink first and then asks for a refresh of the topic,
// so the first snapshot cannot miss a concurrent write.
func (o *Orchestrator) Subscribe(ctx context.Context, topic event.Topic, sink contract.SnapshotSink) (func(), error) {
	if _, ok := o.loader(topic.Kind); !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoLoader, topic.Kind)
	}
	subscriptionID := uuid.NewString()
	o.registry.Subscribe(subscriptionID, topic, sink)

	select {
	case o.shard(topic) <- event.Refreshed{Target: topic}:
	case <-ctx.Done():
		o.registry.Unsubscribe(subscriptionID)
		return nil, ctx.Err()
	}
	o.log.Debug("Subscription opened", "subscription_id", subscriptionID, "topic", topic.String())

	var once sync.Once
	return func() {
		once.Do(func() {
			o.registry.Unsubscribe(subscriptionID)
			o.log.Debug("Subscription closed", "subscription_id", subscriptionID, "topic", topic.String())
		})
	}, nil
}

// Shards exposes the event queues for capacity monitoring.
func (o *Orchestrator) Shards() []workers.NamedChannel {
	named := make([]workers.NamedChannel, len(o.shards))
	for i, shard := range o.shards {
		named[i] = workers.NamedChannel{Name: fmt.Sprintf("shard-%d", i), Channel: shard}
	}
	return named
}

// Start registers one fan-out worker per shard plus the side workers and
// blocks until the supervisor stops.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	for _, shard := range o.shards {
		o.supervisor.Add(workers.NewEventFanout(o.log, shard, o.registry, o.loader, o.sinkTimeout))
	}
	o.supervisor.Add(o.extra...)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "shards", len(o.shards))
	o.supervisor.Run(ctx)
}

// Stop cancels the supervised context; workers return on their own.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
