package runtime

import (
	"sync"
	"teamchat/contract"
	"teamchat/domain/event"
)

type Set map[string]struct{}

type subscription struct {
	topic event.Topic
	sink  contract.SnapshotSink
}

// Registry maps live topics to the sinks of their subscriptions.
// A subscription listens to exactly one topic.
type Registry struct {
	mu            sync.RWMutex
	subscriptions map[string]subscription // subscription id -> topic and sink
	topics        map[event.Topic]Set     // topic -> subscription ids
}

func NewRegistry() *Registry {
	return &Registry{
		subscriptions: make(map[string]subscription),
		topics:        make(map[event.Topic]Set),
	}
}

// Subscribe registers sink under subscriptionID. Subscribing an existing
// id again moves it to the new topic.
func (r *Registry) Subscribe(subscriptionID string, topic event.Topic, sink contract.SnapshotSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.remove(subscriptionID)
	r.subscriptions[subscriptionID] = subscription{topic: topic, sink: sink}
	if _, ok := r.topics[topic]; !ok {
		r.topics[topic] = make(Set)
	}
	r.topics[topic][subscriptionID] = struct{}{}
}

// Unsubscribe is idempotent.
func (r *Registry) Unsubscribe(subscriptionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(subscriptionID)
}

func (r *Registry) remove(subscriptionID string) {
	sub, ok := r.subscriptions[subscriptionID]
	if !ok {
		return
	}
	delete(r.subscriptions, subscriptionID)
	if members, ok := r.topics[sub.topic]; ok {
		delete(members, subscriptionID)
		// No empty sets left behind
		if len(members) == 0 {
			delete(r.topics, sub.topic)
		}
	}
}

func (r *Registry) GetSinks(topic event.Topic) []contract.SnapshotSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.topics[topic]
	if !ok {
		return nil
	}
	sinks := make([]contract.SnapshotSink, 0, len(members))
	for id := range members {
		sinks = append(sinks, r.subscriptions[id].sink)
	}
	return sinks
}

// Topics lists the topics of a kind that currently have subscribers.
func (r *Registry) Topics(kind event.Kind) []event.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var topics []event.Topic
	for topic := range r.topics {
		if topic.Kind == kind {
			topics = append(topics, topic)
		}
	}
	return topics
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscriptions)
}
