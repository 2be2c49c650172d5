package grpcapi

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/personas"
	"github.com/example/muse/internal/ports/secondary"
)

// toStatus maps domain errors onto gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codes.Internal
	switch {
	case errors.Is(err, secondary.ErrNotFound),
		errors.Is(err, secondary.ErrContentNotFound),
		errors.Is(err, secondary.ErrArtworkMissing),
		errors.Is(err, personas.ErrPersonaNotFound):
		code = codes.NotFound
	case errors.Is(err, secondary.ErrVersionConflict):
		code = codes.Aborted
	case errors.Is(err, secondary.ErrAlreadyExists),
		errors.Is(err, secondary.ErrDuplicateContent):
		code = codes.AlreadyExists
	case errors.Is(err, thought.ErrThoughtComplete),
		errors.Is(err, thought.ErrInvalidTransition):
		code = codes.FailedPrecondition
	case errors.Is(err, thought.ErrMalformedTaskResponse),
		errors.Is(err, plan.ErrPlanParse),
		errors.Is(err, plan.ErrUnhandledTool),
		errors.Is(err, content.ErrUnknownContentType):
		code = codes.InvalidArgument
	case errors.Is(err, secondary.ErrBackendUnavailable):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	}
	return status.Error(code, err.Error())
}
