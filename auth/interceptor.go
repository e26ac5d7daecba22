package auth

import (
	"context"
	"log/slog"
	"strings"
	"teamchat/api"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that do not require a token.
var publicMethods = map[string]struct{}{
	api.AuthService_Login_FullMethodName:    {},
	api.AuthService_Register_FullMethodName: {},
}

// Identity is the authenticated caller, as carried by the token.
type Identity struct {
	UserID      string
	DisplayName string
	Roles       []string
}

type contextKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// UserFromContext returns the identity injected by the interceptors.
func UserFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok && identity.UserID != ""
}

type Interceptor struct {
	tokens TokenManager
	log    *slog.Logger
}

func NewInterceptor(tokens TokenManager, log *slog.Logger) Interceptor {
	return Interceptor{tokens: tokens, log: log}
}

// Unary validates the bearer token of every non public unary call.
func (i Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}
		authenticated, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(authenticated, req)
	}
}

// Stream does the same for streaming calls; the identity is exposed
// through the stream context.
func (i Interceptor) Stream() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if isPublicMethod(info.FullMethod) {
			return handler(srv, ss)
		}
		authenticated, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: authenticated})
	}
}

func (i Interceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is missing")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
	}

	identity, err := i.tokens.ValidateToken(strings.TrimPrefix(values[0], "Bearer "))
	if err != nil {
		i.log.Debug("Rejected token", "method", method, "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	return WithIdentity(ctx, identity), nil
}

func isPublicMethod(method string) bool {
	_, ok := publicMethods[method]
	return ok
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}
