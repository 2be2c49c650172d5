package grpcapi

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/example/muse/internal/app"
	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/metrics"
	"github.com/example/muse/internal/personas"
	"github.com/example/muse/internal/ports/primary"
	"github.com/example/muse/internal/ports/secondary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testThoughtID = "20240309183001abcdef"

var testTime = time.Date(2024, 3, 9, 18, 30, 1, 0, time.UTC)

// fakeThoughtService implements primary.ThoughtService over a single thought.
type fakeThoughtService struct {
	current  *thought.Thought
	startErr error
	stepErr  error
}

func newFakeThoughtService() *fakeThoughtService {
	return &fakeThoughtService{current: thought.New(testThoughtID, thought.NewThought{
		PersonaName:    "Lucas Darkthorn",
		InitialThought: "I will paint the harbor.",
		Rationale:      "## Task\nI will paint the harbor.",
	}, testTime)}
}

func (f *fakeThoughtService) StartNewThought(ctx context.Context, req primary.StartThoughtRequest) (*thought.Thought, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	if req.PersonaName != "Lucas Darkthorn" {
		return nil, fmt.Errorf("%w: %s", personas.ErrPersonaNotFound, req.PersonaName)
	}
	t := f.current.Clone()
	t.UserNudge = req.UserNudge
	return t, nil
}

func (f *fakeThoughtService) DevelopThoughtPlan(ctx context.Context, t *thought.Thought) (*thought.Thought, error) {
	if t.Plan != nil {
		return t, nil
	}
	next, err := t.Apply(thought.Update{Plan: []plan.Step{{ToolName: plan.ToolWriteInJournal, Purpose: "Reflect"}}}, testTime)
	if err != nil {
		return nil, err
	}
	f.current = next
	return next, nil
}

func (f *fakeThoughtService) ContinueThought(ctx context.Context, t *thought.Thought, progress primary.ProgressFunc) (*primary.StepResult, error) {
	if f.stepErr != nil {
		return nil, f.stepErr
	}
	if t.Complete {
		return nil, thought.ErrThoughtComplete
	}
	if t.Version != f.current.Version {
		return nil, secondary.ErrVersionConflict
	}
	step, _ := t.NextStep()
	done, text := t.StepsCompleted+1, "Quiet evening."
	complete := done == len(t.Plan)
	entry := &content.JournalEntry{PersonaName: t.PersonaName, DateAdded: testTime, ThoughtID: t.ThoughtID, Content: text}
	next, err := t.Apply(thought.Update{
		StepsCompleted:   &done,
		Context:          &text,
		Complete:         &complete,
		LastFullResponse: &text,
		AddContentIDs:    []string{content.QualifiedID(entry)},
	}, testTime)
	if err != nil {
		return nil, err
	}
	f.current = next
	return &primary.StepResult{Thought: next, Step: step, Output: text, Content: entry}, nil
}

func (f *fakeThoughtService) RunThought(ctx context.Context, t *thought.Thought, progress primary.ProgressFunc) (*thought.Thought, error) {
	return nil, status.Error(codes.Unimplemented, "not used")
}

func (f *fakeThoughtService) GetThought(ctx context.Context, id string) (*thought.Thought, error) {
	if id != testThoughtID {
		return nil, secondary.ErrNotFound
	}
	return f.current.Clone(), nil
}

func (f *fakeThoughtService) GetThoughtVersion(ctx context.Context, id string, version int) (*thought.Thought, error) {
	if id != testThoughtID || version > f.current.Version {
		return nil, secondary.ErrNotFound
	}
	if version == f.current.Version {
		return f.current.Clone(), nil
	}
	// Older versions only differ in version number for this fake.
	old := f.current.Clone()
	old.Version = version
	return old, nil
}

func (f *fakeThoughtService) ThoughtHistory(ctx context.Context, id string) ([]*thought.Thought, error) {
	return []*thought.Thought{f.current.Clone()}, nil
}

func (f *fakeThoughtService) ListIncompleteThoughts(ctx context.Context) ([]*thought.Thought, error) {
	if f.current.Complete {
		return nil, nil
	}
	return []*thought.Thought{f.current.Clone()}, nil
}

func (f *fakeThoughtService) ListRecentlyCompleted(ctx context.Context, persona string, limit int) ([]*thought.Thought, error) {
	if !f.current.Complete {
		return nil, nil
	}
	return []*thought.Thought{f.current.Clone()}, nil
}

func (f *fakeThoughtService) ListRecentThoughts(ctx context.Context, limit int) ([]*thought.Thought, error) {
	return []*thought.Thought{f.current.Clone()}, nil
}

var _ primary.ThoughtService = (*fakeThoughtService)(nil)

// dial starts a server on an in-memory listener and returns a client connection.
func dial(t *testing.T, svc primary.ThoughtService, m *metrics.Metrics) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := NewGRPCServer(svc, m, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = gs.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		gs.Stop()
		<-done
	})
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, req map[string]any) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), "/"+ServiceName+"/"+method, in, out)
	return out, err
}

func TestThoughtLifecycleOverGRPC(t *testing.T) {
	m := metrics.New()
	conn := dial(t, newFakeThoughtService(), m)

	started, err := invoke(t, conn, "StartThought", map[string]any{"persona_name": "Lucas Darkthorn", "user_nudge": "the sea"})
	require.NoError(t, err)
	assert.Equal(t, testThoughtID, started.Fields["thought_id"].GetStringValue())
	assert.Equal(t, "elicited", started.Fields["state"].GetStringValue())
	assert.Equal(t, "the sea", started.Fields["user_nudge"].GetStringValue())
	_, isNull := started.Fields["plan"].GetKind().(*structpb.Value_NullValue)
	assert.True(t, isNull, "expected a null plan before planning")

	planned, err := invoke(t, conn, "DevelopPlan", map[string]any{"thought_id": testThoughtID})
	require.NoError(t, err)
	assert.Equal(t, 2.0, planned.Fields["version"].GetNumberValue())
	steps := planned.Fields["plan"].GetListValue().GetValues()
	require.Len(t, steps, 1)
	assert.Equal(t, "WriteInJournal", steps[0].GetStructValue().Fields["tool_name"].GetStringValue())

	stepped, err := invoke(t, conn, "ContinueThought", map[string]any{"thought_id": testThoughtID, "version": 2})
	require.NoError(t, err)
	assert.Equal(t, "Quiet evening.", stepped.Fields["output"].GetStringValue())
	assert.Contains(t, stepped.Fields["content_id"].GetStringValue(), "JournalEntry:")
	assert.True(t, stepped.Fields["thought"].GetStructValue().Fields["complete"].GetBoolValue())

	_, err = invoke(t, conn, "ContinueThought", map[string]any{"thought_id": testThoughtID})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	listed, err := invoke(t, conn, "ListThoughts", map[string]any{"status": "complete"})
	require.NoError(t, err)
	assert.Len(t, listed.Fields["thoughts"].GetListValue().GetValues(), 1)

	assert.Greater(t, testutilCount(m, "/"+ServiceName+"/StartThought"), 0.0)
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		req    map[string]any
		setup  func(*fakeThoughtService)
		want   codes.Code
	}{
		{name: "missing thought id", method: "GetThought", req: map[string]any{}, want: codes.InvalidArgument},
		{name: "malformed thought id", method: "GetThought", req: map[string]any{"thought_id": "nope"}, want: codes.InvalidArgument},
		{name: "unknown thought", method: "GetThought", req: map[string]any{"thought_id": "20240101000000zzzzzz"}, want: codes.NotFound},
		{name: "unknown persona", method: "StartThought", req: map[string]any{"persona_name": "Nobody"}, want: codes.NotFound},
		{name: "missing persona", method: "StartThought", req: map[string]any{}, want: codes.InvalidArgument},
		{
			name:   "malformed task",
			method: "StartThought",
			req:    map[string]any{"persona_name": "Lucas Darkthorn"},
			setup:  func(f *fakeThoughtService) { f.startErr = fmt.Errorf("wrapped: %w", thought.ErrMalformedTaskResponse) },
			want:   codes.InvalidArgument,
		},
		{
			name:   "backend down",
			method: "StartThought",
			req:    map[string]any{"persona_name": "Lucas Darkthorn"},
			setup:  func(f *fakeThoughtService) { f.startErr = fmt.Errorf("%w: timeout", secondary.ErrBackendUnavailable) },
			want:   codes.Unavailable,
		},
		{
			name:   "stale version",
			method: "ContinueThought",
			req:    map[string]any{"thought_id": testThoughtID},
			setup:  func(f *fakeThoughtService) { f.stepErr = fmt.Errorf("save: %w", secondary.ErrVersionConflict) },
			want:   codes.Aborted,
		},
		{name: "bad list status", method: "ListThoughts", req: map[string]any{"status": "sleeping"}, want: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeThoughtService()
			if tt.setup != nil {
				tt.setup(svc)
			}
			conn := dial(t, svc, nil)

			_, err := invoke(t, conn, tt.method, tt.req)
			assert.Equal(t, tt.want, status.Code(err), "error: %v", err)
		})
	}
}

func TestHealth(t *testing.T) {
	conn := dial(t, newFakeThoughtService(), nil)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestToStatus_PlanErrors(t *testing.T) {
	err := toStatus(fmt.Errorf("%w: step 1: %w", plan.ErrPlanParse, plan.ErrUnhandledTool))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.NoError(t, toStatus(nil))
}

func TestToStatus_EmptyBackendAnswerIsUnavailable(t *testing.T) {
	err := toStatus(fmt.Errorf("%w: %w: summarize into context", secondary.ErrBackendUnavailable, app.ErrEmptyResponse))
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
