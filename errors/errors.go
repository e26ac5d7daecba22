package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrDeliveryTimeout = fmt.Errorf("snapshot delivery timed out")
	ErrNoLoader        = fmt.Errorf("no snapshot loader for topic kind")

	// Validation
	ErrEmptyMessage    = fmt.Errorf("message text is empty")
	ErrChatNotSelected = fmt.Errorf("no chat selected")
	ErrEmptyName       = fmt.Errorf("name is required")
	ErrEmptyReaction   = fmt.Errorf("reaction symbol is empty")
	ErrInvalidMember   = fmt.Errorf("member does not belong to the team")
	ErrInvalidCommand  = fmt.Errorf("invalid command")
	ErrInvalidPath     = fmt.Errorf("invalid object path")
	ErrEmptyResource   = fmt.Errorf("resource is empty")

	// Authorization
	ErrNotTeamMember    = fmt.Errorf("user is not a member of the team")
	ErrNotChatMember    = fmt.Errorf("user is not a member of the chat")
	ErrNotMessageSender = fmt.Errorf("only the sender may change this message")
	ErrNotAuthor        = fmt.Errorf("only the author may delete this announcement")
	ErrNotOwner         = fmt.Errorf("only the owner may perform this action")
	ErrOwnerRemoval     = fmt.Errorf("the team owner cannot be removed")

	// Lookup
	ErrUserNotFound         = fmt.Errorf("user not found")
	ErrTeamNotFound         = fmt.Errorf("team not found")
	ErrChatNotFound         = fmt.Errorf("chat not found")
	ErrMessageNotFound      = fmt.Errorf("message not found")
	ErrAnnouncementNotFound = fmt.Errorf("announcement not found")
	ErrResourceNotFound     = fmt.Errorf("resource not found")

	// Identity
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidHash        = fmt.Errorf("invalid hash format")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")
)

var codeByError = []struct {
	err  error
	code codes.Code
}{
	{ErrEmptyMessage, codes.InvalidArgument},
	{ErrChatNotSelected, codes.InvalidArgument},
	{ErrEmptyName, codes.InvalidArgument},
	{ErrEmptyReaction, codes.InvalidArgument},
	{ErrInvalidMember, codes.InvalidArgument},
	{ErrInvalidCommand, codes.InvalidArgument},
	{ErrInvalidPath, codes.InvalidArgument},
	{ErrEmptyResource, codes.InvalidArgument},
	{ErrInvalidPassword, codes.InvalidArgument},
	{ErrNotTeamMember, codes.PermissionDenied},
	{ErrNotChatMember, codes.PermissionDenied},
	{ErrNotMessageSender, codes.PermissionDenied},
	{ErrNotAuthor, codes.PermissionDenied},
	{ErrNotOwner, codes.PermissionDenied},
	{ErrOwnerRemoval, codes.FailedPrecondition},
	{ErrUserNotFound, codes.NotFound},
	{ErrTeamNotFound, codes.NotFound},
	{ErrChatNotFound, codes.NotFound},
	{ErrMessageNotFound, codes.NotFound},
	{ErrAnnouncementNotFound, codes.NotFound},
	{ErrResourceNotFound, codes.NotFound},
	{ErrUserAlreadyExists, codes.AlreadyExists},
	{ErrInvalidCredentials, codes.Unauthenticated},
	{ErrUnauthenticated, codes.Unauthenticated},
	{context.Canceled, codes.Canceled},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
}

// MapToGRPCError converts a domain error into a gRPC status error.
// Errors that already carry a status are returned untouched, unknown
// errors become Internal so that storage details never leak to clients.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, entry := range codeByError {
		if stderrors.Is(err, entry.err) {
			return status.Error(entry.code, err.Error())
		}
	}
	return status.Error(codes.Internal, "internal error")
}
