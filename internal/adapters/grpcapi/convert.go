package grpcapi

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/thought"
)

func stepValue(s plan.Step) map[string]any {
	return map[string]any{
		"tool_name": string(s.ToolName),
		"purpose":   s.Purpose,
	}
}

func thoughtValue(t *thought.Thought) map[string]any {
	ids := make([]any, 0, len(t.GeneratedContentIDs))
	for _, id := range t.GeneratedContentIDs {
		ids = append(ids, id)
	}

	v := map[string]any{
		"thought_id":            t.ThoughtID,
		"version":               t.Version,
		"persona_name":          t.PersonaName,
		"user_nudge":            t.UserNudge,
		"initial_thought":       t.InitialThought,
		"rationale":             t.Rationale,
		"steps_completed":       t.StepsCompleted,
		"context":               t.Context,
		"complete":              t.Complete,
		"state":                 string(t.State()),
		"generated_content_ids": ids,
		"last_full_response":    t.LastFullResponse,
		"created_at":            t.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":            t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	// An elicited thought has a null plan, not an empty one.
	v["plan"] = nil
	if t.Plan != nil {
		steps := make([]any, 0, len(t.Plan))
		for _, s := range t.Plan {
			steps = append(steps, stepValue(s))
		}
		v["plan"] = steps
	}
	return v
}

func thoughtStruct(t *thought.Thought) (*structpb.Struct, error) {
	return structpb.NewStruct(thoughtValue(t))
}

func stringField(s *structpb.Struct, name string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[name].GetStringValue()
}

func intField(s *structpb.Struct, name string) int {
	if s == nil {
		return 0
	}
	return int(s.GetFields()[name].GetNumberValue())
}
