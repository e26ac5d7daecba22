package sink

import (
	"context"
	"log/slog"
	"sync"
	"teamchat/contract"
	"teamchat/errors"
)

// SubscriptionSink buffers the snapshots of one live subscription until the
// transport stream picks them up.
//
// A snapshot identical to the last delivered one is skipped. When the
// reader is too slow and the buffer stays full past the delivery deadline,
// the oldest pending snapshot is discarded: snapshots are full result sets,
// so only the latest one matters.
type SubscriptionSink struct {
	Snapshots chan contract.Snapshot
	log       *slog.Logger

	mu        sync.Mutex
	last      uint64
	delivered bool
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

func NewSubscriptionSink(log *slog.Logger, bufferSize int) *SubscriptionSink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &SubscriptionSink{
		Snapshots: make(chan contract.Snapshot, bufferSize),
		log:       log,
		done:      make(chan struct{}),
	}
}

// Consume is called by the fan-out worker, with a deadline.
func (s *SubscriptionSink) Consume(ctx context.Context, snapshot contract.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.delivered && s.last == snapshot.Fingerprint {
		return nil
	}

	select {
	case s.Snapshots <- snapshot:
		s.remember(snapshot)
		return nil
	case <-s.done:
		return nil
	case <-ctx.Done():
	}

	// Reader is stuck: make room for the newest snapshot.
	select {
	case stale := <-s.Snapshots:
		s.log.Warn("Subscriber too slow, stale snapshot dropped", "topic", stale.Topic.String())
	default:
	}
	select {
	case s.Snapshots <- snapshot:
		s.remember(snapshot)
		return nil
	default:
		return errors.ErrDeliveryTimeout
	}
}

func (s *SubscriptionSink) remember(snapshot contract.Snapshot) {
	s.last = snapshot.Fingerprint
	s.delivered = true
}

// Done is closed once the sink is closed.
func (s *SubscriptionSink) Done() <-chan struct{} {
	return s.done
}

// Close stops further deliveries. Safe to call twice.
func (s *SubscriptionSink) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	})
}
