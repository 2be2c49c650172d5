package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPlanParse is returned when a plan response fails the structural contract.
var ErrPlanParse = errors.New("plan parse error")

// ParsePlan parses a backend response into an ordered list of steps.
//
// The response must be exactly one JSON array of {"tool_name", "purpose"}
// objects. The only normalization applied is removing a single enclosing
// Markdown code fence. Unknown fields, unknown tools, empty purposes, empty
// plans and trailing data are all rejected.
func ParsePlan(response string) ([]Step, error) {
	body := stripFence(strings.TrimSpace(response))
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrPlanParse)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var raw []struct {
		ToolName string `json:"tool_name"`
		Purpose  string `json:"purpose"`
	}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after plan", ErrPlanParse)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: plan has no steps", ErrPlanParse)
	}

	steps := make([]Step, 0, len(raw))
	for i, r := range raw {
		tool, err := ParseTool(r.ToolName)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %w", ErrPlanParse, i+1, err)
		}
		purpose := strings.TrimSpace(r.Purpose)
		if purpose == "" {
			return nil, fmt.Errorf("%w: step %d has no purpose", ErrPlanParse, i+1)
		}
		steps = append(steps, Step{ToolName: tool, Purpose: purpose})
	}
	return steps, nil
}

// MarshalSteps encodes a plan for storage.
func MarshalSteps(steps []Step) ([]byte, error) {
	if steps == nil {
		return nil, nil
	}
	return json.Marshal(steps)
}

// UnmarshalSteps decodes a stored plan. Empty input means no plan.
// A stored step naming a tool outside the vocabulary is rejected.
func UnmarshalSteps(data []byte) ([]Step, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, err
	}
	for i, s := range steps {
		if !s.ToolName.Valid() {
			return nil, fmt.Errorf("%w: stored step %d uses %q", ErrUnhandledTool, i+1, s.ToolName)
		}
	}
	return steps, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	// Drop an optional language tag on the opening fence line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.ContainsAny(inner[:nl], "[{") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}
