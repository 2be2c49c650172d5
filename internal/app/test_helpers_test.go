package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/personas"
	"github.com/example/muse/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockThoughtRepository implements secondary.ThoughtRepository in memory.
type mockThoughtRepository struct {
	versions  map[string][]*thought.Thought
	updateErr error
}

func newMockThoughtRepository() *mockThoughtRepository {
	return &mockThoughtRepository{versions: make(map[string][]*thought.Thought)}
}

func (m *mockThoughtRepository) Create(ctx context.Context, t *thought.Thought) error {
	if _, ok := m.versions[t.ThoughtID]; ok {
		return secondary.ErrAlreadyExists
	}
	m.versions[t.ThoughtID] = []*thought.Thought{t.Clone()}
	return nil
}

func (m *mockThoughtRepository) Get(ctx context.Context, id string, version int) (*thought.Thought, error) {
	vs, ok := m.versions[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	if version == 0 {
		return vs[len(vs)-1].Clone(), nil
	}
	if version > len(vs) {
		return nil, secondary.ErrNotFound
	}
	return vs[version-1].Clone(), nil
}

func (m *mockThoughtRepository) Update(ctx context.Context, base, next *thought.Thought) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	vs, ok := m.versions[base.ThoughtID]
	if !ok {
		return secondary.ErrNotFound
	}
	if len(vs) != base.Version || next.Version != base.Version+1 {
		return secondary.ErrVersionConflict
	}
	m.versions[base.ThoughtID] = append(vs, next.Clone())
	return nil
}

func (m *mockThoughtRepository) List(ctx context.Context, filters secondary.ThoughtFilters) ([]*thought.Thought, error) {
	var result []*thought.Thought
	for _, vs := range m.versions {
		t := vs[len(vs)-1]
		if filters.Complete != nil && t.Complete != *filters.Complete {
			continue
		}
		if filters.PersonaName != "" && t.PersonaName != filters.PersonaName {
			continue
		}
		result = append(result, t.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ThoughtID > result[j].ThoughtID })
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockThoughtRepository) ListVersions(ctx context.Context, id string) ([]*thought.Thought, error) {
	vs, ok := m.versions[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	out := make([]*thought.Thought, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Clone())
	}
	return out, nil
}

// mockContentRepository implements secondary.ContentRepository in memory.
type mockContentRepository struct {
	records map[string]*secondary.ContentRecord
}

func newMockContentRepository() *mockContentRepository {
	return &mockContentRepository{records: make(map[string]*secondary.ContentRecord)}
}

func (m *mockContentRepository) Create(ctx context.Context, r *secondary.ContentRecord) error {
	key := content.Qualify(r.Kind, r.ContentID)
	if _, ok := m.records[key]; ok {
		return secondary.ErrDuplicateContent
	}
	copied := *r
	m.records[key] = &copied
	return nil
}

func (m *mockContentRepository) Get(ctx context.Context, kind content.Kind, id string) (*secondary.ContentRecord, error) {
	r, ok := m.records[content.Qualify(kind, id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", secondary.ErrContentNotFound, content.Qualify(kind, id))
	}
	copied := *r
	return &copied, nil
}

func (m *mockContentRepository) Latest(ctx context.Context, filters secondary.ContentFilters) ([]*secondary.ContentRecord, error) {
	var result []*secondary.ContentRecord
	for _, r := range m.records {
		if filters.Kind != "" && r.Kind != filters.Kind {
			continue
		}
		if filters.PersonaName != "" && r.PersonaName != filters.PersonaName {
			continue
		}
		copied := *r
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DateAdded.Equal(result[j].DateAdded) {
			return result[i].DateAdded.After(result[j].DateAdded)
		}
		return result[i].ContentID > result[j].ContentID
	})
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

// mockArtStore implements secondary.ArtStore in memory.
type mockArtStore struct {
	blobs    map[string][]byte
	writeErr error
}

func newMockArtStore() *mockArtStore {
	return &mockArtStore{blobs: make(map[string][]byte)}
}

func (m *mockArtStore) Write(ctx context.Context, key string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.blobs[key]; ok {
		return secondary.ErrAlreadyExists
	}
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (m *mockArtStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, secondary.ErrArtworkMissing
	}
	return data, nil
}

func (m *mockArtStore) Location(key string) string {
	return "mem://" + key
}

// scriptedReasoning answers prompts from a fixed queue and records every prompt.
type scriptedReasoning struct {
	responses []string
	prompts   []string
	err       error
}

func (m *scriptedReasoning) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", errors.New("no scripted response left")
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r, nil
}

func (m *scriptedReasoning) script(responses ...string) {
	m.responses = append(m.responses, responses...)
}

// fakeImages returns a fixed PNG header for every description.
type fakeImages struct {
	calls []string
	err   error
}

func (m *fakeImages) GenerateImage(ctx context.Context, description string) ([]byte, error) {
	m.calls = append(m.calls, description)
	if m.err != nil {
		return nil, m.err
	}
	return []byte("\x89PNG\r\n\x1a\n"), nil
}

// ============================================================================
// Test Environment
// ============================================================================

var testEpoch = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

type testEnv struct {
	service     *ThoughtServiceImpl
	content     *ContentServiceImpl
	thoughts    *mockThoughtRepository
	contentRepo *mockContentRepository
	store       *mockArtStore
	reasoning   *scriptedReasoning
	images      *fakeImages
}

// newTestEnv wires both services over in-memory mocks with a clock that
// advances one second per reading.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	registry, err := personas.NewRegistry("")
	if err != nil {
		t.Fatalf("failed to load personas: %v", err)
	}

	tick := 0
	clock := func() time.Time {
		tick++
		return testEpoch.Add(time.Duration(tick) * time.Second)
	}

	env := &testEnv{
		thoughts:    newMockThoughtRepository(),
		contentRepo: newMockContentRepository(),
		store:       newMockArtStore(),
		reasoning:   &scriptedReasoning{},
		images:      &fakeImages{},
	}
	env.content = NewContentService(env.contentRepo, env.store, zap.NewNop())
	env.content.now = clock
	env.service = NewThoughtService(env.thoughts, env.content, registry, env.reasoning, env.images, zap.NewNop(), nil)
	env.service.now = clock
	env.service.suffix = func() string { return "abcdef" }
	return env
}

// seedPlanned stores version 1 of a planned thought for Lucas Darkthorn.
func (e *testEnv) seedPlanned(t *testing.T, id, initialContext string, tools ...plan.Tool) *thought.Thought {
	t.Helper()
	th := thought.New(id, thought.NewThought{
		PersonaName:    "Lucas Darkthorn",
		InitialThought: "I will explore the old lighthouse.",
		Rationale:      "## Task\nI will explore the old lighthouse.",
	}, testEpoch)
	for _, tool := range tools {
		th.Plan = append(th.Plan, plan.Step{ToolName: tool, Purpose: "purpose of " + string(tool)})
	}
	th.Context = initialContext
	if err := e.thoughts.Create(context.Background(), th); err != nil {
		t.Fatalf("failed to seed thought: %v", err)
	}
	return th
}

func lastPrompt(r *scriptedReasoning) string {
	if len(r.prompts) == 0 {
		return ""
	}
	return r.prompts[len(r.prompts)-1]
}

func promptContaining(r *scriptedReasoning, needle string) bool {
	for _, p := range r.prompts {
		if strings.Contains(p, needle) {
			return true
		}
	}
	return false
}
