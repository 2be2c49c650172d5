package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/prompts"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/personas"
	"github.com/example/muse/internal/ports/primary"
	"github.com/example/muse/internal/ports/secondary"
)

// ErrEmptyResponse is returned, wrapped in secondary.ErrBackendUnavailable,
// when the reasoning backend answers with nothing usable.
var ErrEmptyResponse = errors.New("empty backend response")

// contextSeparator divides a new context summary from the context before it.
const contextSeparator = "\n\n---\n\n"

// readLimit is how many entries the read actions pull into context.
const readLimit = 3

type actionInput struct {
	thought  *thought.Thought
	step     plan.Step
	persona  personas.Persona
	progress primary.ProgressFunc
}

type actionOutput struct {
	context string
	output  string
	content content.Entity
}

func (in actionInput) report(status string) {
	if in.progress == nil {
		return
	}
	in.progress(primary.Progress{
		ThoughtID: in.thought.ThoughtID,
		Tool:      in.step.ToolName,
		Status:    status,
	})
}

// complete calls the reasoning backend and rejects blank answers.
func (s *ThoughtServiceImpl) complete(ctx context.Context, what, prompt string) (string, error) {
	response, err := s.reasoning.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to %s: %w", what, err)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return "", fmt.Errorf("%w: %w: %s", secondary.ErrBackendUnavailable, ErrEmptyResponse, what)
	}
	return response, nil
}

// summarize folds action output into a replacement context.
func (s *ThoughtServiceImpl) summarize(ctx context.Context, in actionInput, output string) (string, error) {
	in.report("summarizing")
	return s.complete(ctx, "summarize into context",
		prompts.SummarizeForContext(in.thought, in.persona, in.step, output))
}

// prependContext puts summary ahead of the existing context.
func prependContext(summary, previous string) string {
	if strings.TrimSpace(previous) == "" {
		return summary
	}
	return summary + contextSeparator + previous
}

// cleanTitle strips the quoting and heading marks models like to add.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimLeft(s, "# ")
	s = strings.Trim(s, "\"'*_ ")
	return strings.TrimSpace(s)
}
