package workers

import (
	"context"
	"log/slog"
	"teamchat/contract"
	"teamchat/domain/event"
	"time"
)

// PresenceSweeper refreshes every watched typing topic on a fixed interval.
// Typing records expire through a storage TTL that raises no event; the
// refresh lets subscribers see the expiry. Unchanged snapshots are skipped by
// the sinks, so an idle refresh costs one load per topic.
type PresenceSweeper struct {
	log      *slog.Logger
	registry contract.IRegistry
	notifier contract.Notifier
	interval time.Duration
}

func NewPresenceSweeper(log *slog.Logger, registry contract.IRegistry, notifier contract.Notifier, interval time.Duration) *PresenceSweeper {
	return &PresenceSweeper{log: log, registry: registry, notifier: notifier, interval: interval}
}

func (w *PresenceSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence sweep")
			return nil
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

func (w *PresenceSweeper) Sweep(ctx context.Context) {
	for _, topic := range w.registry.Topics(event.KindTyping) {
		w.notifier.Notify(ctx, event.TypingChanged{ChatID: topic.Key})
	}
}
