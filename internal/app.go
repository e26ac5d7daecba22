// Package internal assembles the teamchat server from its configuration.
package internal

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"teamchat/auth"
	"teamchat/infrastructure/grpc/server"
	"teamchat/moderation"
	"teamchat/repositories"
	"teamchat/runtime"
	"teamchat/runtime/workers"
	"teamchat/services"
	"teamchat/storage"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"google.golang.org/grpc"
)

const (
	debugEndpoint   = "/inspect"
	shutdownTimeout = 5 * time.Second
)

// App owns every long lived resource of the server.
type App struct {
	log          *slog.Logger
	db           *badger.DB
	writer       *bluge.Writer
	orchestrator *runtime.Orchestrator
	server       *grpc.Server
}

// NewApp opens the stores and wires services, runtime and gRPC server.
// Nothing runs until Serve.
func NewApp(ctx context.Context, log *slog.Logger, config Config) (*App, error) {
	charReplacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	words, err := censoredWords(config)
	if err != nil {
		return nil, err
	}
	moderator, err := moderation.NewModerator(words, charReplacement, log)
	if err != nil {
		return nil, fmt.Errorf("moderator: %w", err)
	}

	// 1. Stores
	db, err := badger.Open(buildBadgerOpts(ctx, config, log))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	objects, err := storage.NewDiskStore(config.StorageRoot, config.StorageBaseURL, log)
	if err != nil {
		_ = writer.Close()
		_ = db.Close()
		return nil, err
	}

	if log.Enabled(ctx, slog.LevelDebug) {
		log.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, debugEndpoint))
		database.StartDebugServer(db, config.DebugPort, debugEndpoint, RecordMapper)
	}

	// 2. Runtime
	sup := workers.NewSupervisor(log)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, sup, registry, config.NumberOfWorkers, config.BufferSize, config.SinkTimeout)

	// 3. Services
	teams := repositories.NewTeamRepository(db)
	chats := repositories.NewChatRepository(db)
	users := repositories.NewUserRepository(db)
	tokens := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)

	chatService := services.NewChatService(log,
		teams,
		chats,
		repositories.NewMessageRepository(db, log, config.LimitMessages),
		repositories.NewTypingRepository(db, config.TypingTTL),
		repositories.NewMessageIndex(writer, log),
		moderator, orchestrator, orchestrator)
	announcementService := services.NewAnnouncementService(log, teams, repositories.NewAnnouncementRepository(db), orchestrator, orchestrator)

	for kind, loader := range chatService.Loaders() {
		orchestrator.RegisterLoader(kind, loader)
	}
	for kind, loader := range announcementService.Loaders() {
		orchestrator.RegisterLoader(kind, loader)
	}
	orchestrator.Add(
		workers.NewPresenceSweeper(log, registry, orchestrator, config.SweepInterval),
		workers.NewHealthMonitor(log, registry, config.MetricInterval),
		workers.NewChannelCapacityWorker(log, orchestrator.Shards(), config.MetricInterval, config.LowCapacityThreshold),
	)

	// 4. gRPC
	s := server.NewGRPCServer(log, auth.NewInterceptor(tokens, log),
		server.StreamConfig{BufferSize: config.ConnectionBufferSize},
		server.Services{
			Auth:          services.NewAuthService(users, tokens),
			Chat:          chatService,
			Team:          services.NewTeamService(log, teams, chats, users, orchestrator),
			Announcements: announcementService,
			Resources:     services.NewResourceService(log, teams, repositories.NewResourceRepository(db), objects),
		})

	return &App{log: log, db: db, writer: writer, orchestrator: orchestrator, server: s}, nil
}

func censoredWords(config Config) ([]string, error) {
	if config.ModerationWordsPath == "" {
		return nil, nil
	}
	list, err := moderation.LoadWordList(config.ModerationWordsPath)
	if err != nil {
		return nil, err
	}
	return list.Words, nil
}

func buildBadgerOpts(ctx context.Context, config Config, log *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if log.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG).WithBypassLockGuard(true)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// Serve runs the orchestrator and the gRPC server until ctx is done or
// serving fails, then stops both gracefully.
func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	errChan := make(chan error, 1)
	orchestratorDone := make(chan struct{})

	// 1. Start the engine
	go func() {
		defer close(orchestratorDone)
		a.orchestrator.Start(ctx)
	}()

	// 2. Serve
	go func() {
		a.log.Info("Starting gRPC server", "address", listener.Addr().String())
		for serviceName := range a.server.GetServiceInfo() {
			a.log.Debug("gRPC exposed service", "name", serviceName)
		}
		if err := a.server.Serve(listener); err != nil && !stderrors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 3. Wait for stop or error
	var err error
	select {
	case <-ctx.Done():
		a.log.Info("Shutdown signal received")
	case err = <-errChan:
	}

	// 4. Graceful shutdown. Live subscriptions never end on their own, so
	// past shutdownTimeout the remaining streams are cut.
	stopped := make(chan struct{})
	go func() {
		a.server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		a.server.Stop()
	}
	a.orchestrator.Stop()
	<-orchestratorDone
	return err
}

// Close flushes the search index, then releases the database lock.
func (a *App) Close() error {
	a.log.Info("Closing Bluge...")
	indexErr := a.writer.Close()
	a.log.Info("Closing BadgerDB...")
	return stderrors.Join(indexErr, a.db.Close())
}

// RecordMapper renders stored documents in the debug inspector.
func RecordMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	record := repositories.DescribeRecord(key, val)
	row.Type = record.Collection
	row.Detail = record.Detail
	return row
}
