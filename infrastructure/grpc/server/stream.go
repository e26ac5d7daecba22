package server

import (
	"context"
	"fmt"
	"log/slog"
	"teamchat/auth"
	"teamchat/contract"
	"teamchat/errors"
	"teamchat/sink"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StreamConfig sizes the buffer of each live subscription.
type StreamConfig struct {
	BufferSize int
}

func caller(ctx context.Context) (auth.Identity, error) {
	identity, ok := auth.UserFromContext(ctx)
	if !ok {
		return auth.Identity{}, status.Error(codes.Unauthenticated, errors.ErrUnauthenticated.Error())
	}
	return identity, nil
}

// subscription opens a sink, hands it to subscribe and pumps every
// snapshot to send until the client goes away.
func subscription[T any](ctx context.Context, log *slog.Logger, cfg StreamConfig,
	subscribe func(contract.SnapshotSink) (func(), error),
	render func(contract.Snapshot) (*T, error),
	send func(*T) error) error {
	s := sink.NewSubscriptionSink(log, cfg.BufferSize)
	defer s.Close()

	unsubscribe, err := subscribe(s)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	defer unsubscribe()

	startedAt := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Debug("Subscriber gone", "lifetime", time.Since(startedAt))
			return nil
		case snapshot := <-s.Snapshots:
			msg, err := render(snapshot)
			if err != nil {
				log.Warn("Snapshot not rendered", "topic", snapshot.Topic.String(), "error", err)
				return errors.MapToGRPCError(err)
			}
			if err := send(msg); err != nil {
				log.Warn("Failed to push snapshot to stream", "topic", snapshot.Topic.String(), "error", err)
				return err
			}
		}
	}
}

func items[T any](snapshot contract.Snapshot) ([]T, error) {
	if snapshot.Items == nil {
		return nil, nil
	}
	list, ok := snapshot.Items.([]T)
	if !ok {
		return nil, fmt.Errorf("unexpected items %T for %s", snapshot.Items, snapshot.Topic)
	}
	return list, nil
}
