package workers

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"teamchat/contract"
	"teamchat/domain/event"
	"time"
)

// LoaderLookup resolves the snapshot loader of a topic kind.
type LoaderLookup func(kind event.Kind) (contract.SnapshotLoader, bool)

// EventFanout turns the events of one shard into snapshots and pushes them
// to every sink subscribed to the topic.
//
// The snapshot is loaded once per event, whatever the number of sinks.
// Delivery is best effort: a sink that does not accept the snapshot within
// sinkTimeout is skipped, the next snapshot of the topic supersedes it.
type EventFanout struct {
	log         *slog.Logger
	events      chan event.DomainEvent
	registry    contract.IRegistry
	loaders     LoaderLookup
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events chan event.DomainEvent, registry contract.IRegistry,
	loaders LoaderLookup, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, events: events, registry: registry, loaders: loaders, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fan-out")
			return nil
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		}
	}
}

func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	topic := evt.Topic()
	sinks := w.registry.GetSinks(topic)
	if len(sinks) == 0 {
		return
	}
	loader, ok := w.loaders(topic.Kind)
	if !ok {
		w.log.Warn("No loader for topic", "topic", topic.String())
		return
	}

	items, err := loader(ctx, topic)
	if err != nil {
		w.log.Error("Snapshot load failed", "topic", topic.String(), "error", err)
		return
	}
	fingerprint, err := Fingerprint(items)
	if err != nil {
		w.log.Error("Snapshot fingerprint failed", "topic", topic.String(), "error", err)
		return
	}
	snapshot := contract.Snapshot{Topic: topic, Items: items, Fingerprint: fingerprint, At: time.Now().UTC()}

	for _, sink := range sinks {
		deliveryCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(deliveryCtx, snapshot); err != nil {
			w.log.Warn("Snapshot not delivered", "topic", topic.String(), "error", err)
		}
		cancel()
	}
}

// Fingerprint hashes the JSON form of a snapshot. Two snapshots with the
// same content share a fingerprint.
func Fingerprint(items any) (uint64, error) {
	bytes, err := json.Marshal(items)
	if err != nil {
		return 0, err
	}
	h := fnv.New64a()
	_, _ = h.Write(bytes)
	return h.Sum64(), nil
}
