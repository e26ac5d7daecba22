package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"teamchat/internal"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcclient "teamchat/infrastructure/grpc/client"
)

const testPassword = "ComplexPass123!"

type BaseGrpcSuite struct {
	suite.Suite
	Config Config

	listener *bufconn.Listener
	stop     context.CancelFunc
	done     chan struct{}
}

// SetupSuite loads the environment configuration and, unless a server
// address is given, starts a server in process on an in-memory listener.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr != "" {
		return
	}

	dir := s.T().TempDir()
	config := internal.Config{
		LogLevel:             "ERROR",
		BadgerFilepath:       dir + "/badger",
		BlugeFilepath:        dir + "/bluge",
		StorageRoot:          dir + "/files",
		StorageBaseURL:       "http://files.test",
		BufferSize:           64,
		ConnectionBufferSize: 8,
		NumberOfWorkers:      2,
		SinkTimeout:          time.Second,
		TypingTTL:            5 * time.Second,
		SweepInterval:        200 * time.Millisecond,
		MetricInterval:       time.Minute,
		AuthSecret:           "e2e-secret",
		AuthTokenDuration:    time.Hour,
		CharReplacement:      "*",
	}
	ctx, stop := context.WithCancel(context.Background())
	app, err := internal.NewApp(ctx, logs.GetLoggerFromString(config.LogLevel), config)
	s.Require().NoError(err)

	s.listener = bufconn.Listen(1024 * 1024)
	s.stop = stop
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_ = app.Serve(ctx, s.listener)
		_ = app.Close()
	}()
}

func (s *BaseGrpcSuite) TearDownSuite() {
	if s.stop == nil {
		return
	}
	s.stop()
	<-s.done
}

// Client connects a new client with logging, colors, and JSON debugging.
func (s *BaseGrpcSuite) Client(name string) *grpcclient.TeamchatClient {
	t := s.T()
	// 1. Print a colorized header for the connection step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	// 2. Log every unary call, with bodies when E2E_DEBUG_JSON is enabled
	opts := []grpc.DialOption{
		grpc.WithChainUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, indent(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, indent(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	}

	// 3. Dial the in-memory listener or the configured server
	target := s.Config.ServerAddr
	if s.listener != nil {
		target = "passthrough:///bufnet"
		opts = append(opts, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}))
	}
	c, err := grpcclient.Dial(target, opts...)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+target)
	return c
}

// WithUser registers a fresh account and runs fn with its client.
func (s *BaseGrpcSuite) WithUser(name string, fn func(ctx context.Context, c *grpcclient.TeamchatClient)) {
	c := s.Client(name)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	email := fmt.Sprintf("%s-%s@example.com", strings.ToLower(name), uuid.NewString()[:8])
	_, err := c.Register(ctx, email, name, testPassword)
	s.Require().NoError(err)
	fn(ctx, c)
}

func indent(v any) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(bytes)
}
