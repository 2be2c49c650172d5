// Package grpcapi serves the thought engine over gRPC.
//
// Messages are google.protobuf.Struct values, so no generated code is
// needed; the service descriptor below is written by hand.
package grpcapi

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/ctxutil"
	"github.com/example/muse/internal/metrics"
	"github.com/example/muse/internal/ports/primary"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "muse.v1.ThoughtService"

const defaultListLimit = 20

// Server implements the ThoughtService gRPC methods.
type Server struct {
	thoughts primary.ThoughtService
	logger   *zap.Logger
}

// NewServer creates a new gRPC handler set over the thought service.
func NewServer(thoughts primary.ThoughtService, logger *zap.Logger) *Server {
	return &Server{thoughts: thoughts, logger: logger}
}

// StartThought elicits a new thought. Request: {persona_name, user_nudge}.
func (s *Server) StartThought(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	persona := stringField(req, "persona_name")
	if persona == "" {
		return nil, status.Error(codes.InvalidArgument, "persona_name is required")
	}
	t, err := s.thoughts.StartNewThought(ctx, primary.StartThoughtRequest{
		PersonaName: persona,
		UserNudge:   stringField(req, "user_nudge"),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return thoughtStruct(t)
}

// DevelopPlan plans the latest version of a thought. Request: {thought_id}.
func (s *Server) DevelopPlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	t, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	planned, err := s.thoughts.DevelopThoughtPlan(ctx, t)
	if err != nil {
		return nil, toStatus(err)
	}
	return thoughtStruct(planned)
}

// ContinueThought runs the next step. Request: {thought_id, version?}.
// With a version the call fails with Aborted unless it is still current.
func (s *Server) ContinueThought(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	t, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	result, err := s.thoughts.ContinueThought(ctx, t, nil)
	if err != nil {
		return nil, toStatus(err)
	}

	contentID := ""
	if result.Content != nil {
		contentID = content.QualifiedID(result.Content)
	}
	return structpb.NewStruct(map[string]any{
		"thought":    thoughtValue(result.Thought),
		"step":       stepValue(result.Step),
		"output":     result.Output,
		"content_id": contentID,
	})
}

// GetThought returns a thought. Request: {thought_id, version?}.
func (s *Server) GetThought(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	t, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	return thoughtStruct(t)
}

// ListThoughts lists thoughts. Request: {status?, persona_name?, limit?}
// where status is "incomplete", "complete" or empty for any.
func (s *Server) ListThoughts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := intField(req, "limit")
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		list []*thought.Thought
		err  error
	)
	switch st := stringField(req, "status"); st {
	case "incomplete":
		list, err = s.thoughts.ListIncompleteThoughts(ctx)
	case "complete":
		list, err = s.thoughts.ListRecentlyCompleted(ctx, stringField(req, "persona_name"), limit)
	case "":
		list, err = s.thoughts.ListRecentThoughts(ctx, limit)
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", st)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]any, 0, len(list))
	for _, t := range list {
		items = append(items, thoughtValue(t))
	}
	return structpb.NewStruct(map[string]any{"thoughts": items})
}

func (s *Server) load(ctx context.Context, req *structpb.Struct) (*thought.Thought, error) {
	id := stringField(req, "thought_id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "thought_id is required")
	}
	if err := thought.ValidateThoughtID(id); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var (
		t   *thought.Thought
		err error
	)
	if v := intField(req, "version"); v > 0 {
		t, err = s.thoughts.GetThoughtVersion(ctx, id, v)
	} else {
		t, err = s.thoughts.GetThought(ctx, id)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return t, nil
}

func unaryHandler(call func(*Server, context.Context, *structpb.Struct) (*structpb.Struct, error), method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(*Server), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(*Server), ctx, req.(*structpb.Struct))
		})
	}
}

// ServiceDesc describes the ThoughtService for registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartThought", Handler: unaryHandler((*Server).StartThought, "StartThought")},
		{MethodName: "DevelopPlan", Handler: unaryHandler((*Server).DevelopPlan, "DevelopPlan")},
		{MethodName: "ContinueThought", Handler: unaryHandler((*Server).ContinueThought, "ContinueThought")},
		{MethodName: "GetThought", Handler: unaryHandler((*Server).GetThought, "GetThought")},
		{MethodName: "ListThoughts", Handler: unaryHandler((*Server).ListThoughts, "ListThoughts")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "muse/v1/thought_service.proto",
}

// NewGRPCServer builds a gRPC server with the thought service and the
// standard health service registered.
func NewGRPCServer(thoughts primary.ThoughtService, m *metrics.Metrics, logger *zap.Logger) *grpc.Server {
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryInterceptor(m, logger)),
		grpc.MaxRecvMsgSize(16*1024*1024),
	)
	gs.RegisterService(&ServiceDesc, NewServer(thoughts, logger))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs
}

// UnaryInterceptor tags each request with a run ID, records metrics and logs the outcome.
func UnaryInterceptor(m *metrics.Metrics, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = ctxutil.EnsureRunID(ctx)
		start := time.Now()
		if m != nil {
			m.GrpcRequestsInFlight.Inc()
			defer m.GrpcRequestsInFlight.Dec()
		}

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		code := status.Code(err)
		if m != nil {
			st := "success"
			if err != nil {
				st = "error"
			}
			m.RecordGrpcRequest(info.FullMethod, st, duration)
		}
		logger.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", duration),
			zap.String("run_id", ctxutil.RunIDFromContext(ctx)),
		)
		return resp, err
	}
}
