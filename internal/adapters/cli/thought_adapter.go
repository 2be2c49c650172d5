// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/ports/primary"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// ThoughtAdapter translates CLI operations to ThoughtService calls.
type ThoughtAdapter struct {
	service primary.ThoughtService
	out     io.Writer
}

// NewThoughtAdapter creates a new ThoughtAdapter with the given service.
func NewThoughtAdapter(service primary.ThoughtService, out io.Writer) *ThoughtAdapter {
	return &ThoughtAdapter{service: service, out: out}
}

// Start elicits a new thought for a persona.
func (a *ThoughtAdapter) Start(ctx context.Context, persona, nudge string) (*thought.Thought, error) {
	t, err := a.service.StartNewThought(ctx, primary.StartThoughtRequest{PersonaName: persona, UserNudge: nudge})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "%s Started thought %s for %s\n", green("✓"), t.ThoughtID, t.PersonaName)
	fmt.Fprintf(a.out, "  %s\n", t.InitialThought)
	return t, nil
}

// Plan develops the plan of the latest version of a thought.
func (a *ThoughtAdapter) Plan(ctx context.Context, thoughtID string) (*thought.Thought, error) {
	t, err := a.service.GetThought(ctx, thoughtID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	alreadyPlanned := t.Plan != nil

	planned, err := a.service.DevelopThoughtPlan(ctx, t)
	if err != nil {
		return nil, err
	}
	if alreadyPlanned {
		fmt.Fprintf(a.out, "Thought %s already has a plan\n", thoughtID)
	} else {
		fmt.Fprintf(a.out, "%s Planned thought %s (%d steps)\n", green("✓"), thoughtID, len(planned.Plan))
	}
	a.printPlan(planned)
	return planned, nil
}

// Continue executes the next step of a thought.
func (a *ThoughtAdapter) Continue(ctx context.Context, thoughtID string) (*primary.StepResult, error) {
	t, err := a.service.GetThought(ctx, thoughtID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	result, err := a.service.ContinueThought(ctx, t, a.progress)
	if err != nil {
		return nil, err
	}
	a.printStep(result)
	return result, nil
}

// Run plans if needed and executes every remaining step.
func (a *ThoughtAdapter) Run(ctx context.Context, thoughtID string) (*thought.Thought, error) {
	t, err := a.service.GetThought(ctx, thoughtID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	done, err := a.service.RunThought(ctx, t, a.progress)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "%s Thought %s complete (v%d)\n", green("✓"), done.ThoughtID, done.Version)
	for _, id := range done.GeneratedContentIDs {
		fmt.Fprintf(a.out, "  produced %s\n", id)
	}
	return done, nil
}

// Show displays one version of a thought; version 0 means latest.
func (a *ThoughtAdapter) Show(ctx context.Context, thoughtID string, version int) (*thought.Thought, error) {
	var (
		t   *thought.Thought
		err error
	)
	if version > 0 {
		t, err = a.service.GetThoughtVersion(ctx, thoughtID, version)
	} else {
		t, err = a.service.GetThought(ctx, thoughtID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}

	fmt.Fprintf(a.out, "\nThought:  %s (v%d)\n", t.ThoughtID, t.Version)
	fmt.Fprintf(a.out, "Persona:  %s\n", t.PersonaName)
	fmt.Fprintf(a.out, "State:    %s\n", t.State())
	fmt.Fprintf(a.out, "Task:     %s\n", t.InitialThought)
	if t.UserNudge != "" {
		fmt.Fprintf(a.out, "Nudge:    %s\n", t.UserNudge)
	}
	fmt.Fprintf(a.out, "Created:  %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Updated:  %s\n", t.UpdatedAt.Format("2006-01-02 15:04:05"))
	if t.Plan != nil {
		a.printPlan(t)
	}
	if t.Context != "" {
		fmt.Fprintf(a.out, "\nContext:\n%s\n", indent(t.Context))
	}
	if len(t.GeneratedContentIDs) > 0 {
		fmt.Fprintln(a.out, "\nContent:")
		for _, id := range t.GeneratedContentIDs {
			fmt.Fprintf(a.out, "  %s\n", id)
		}
	}
	fmt.Fprintln(a.out)
	return t, nil
}

// List lists thoughts. status is "incomplete", "complete" or empty for any.
func (a *ThoughtAdapter) List(ctx context.Context, status, persona string, limit int) error {
	var (
		thoughts []*thought.Thought
		err      error
	)
	switch status {
	case "incomplete":
		thoughts, err = a.service.ListIncompleteThoughts(ctx)
	case "complete":
		thoughts, err = a.service.ListRecentlyCompleted(ctx, persona, limit)
	case "":
		thoughts, err = a.service.ListRecentThoughts(ctx, limit)
	default:
		return fmt.Errorf("unknown status %q: use incomplete or complete", status)
	}
	if err != nil {
		return fmt.Errorf("failed to list thoughts: %w", err)
	}

	if len(thoughts) == 0 {
		fmt.Fprintln(a.out, "No thoughts found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-21s %-4s %-12s %-7s %-18s %s\n", "ID", "VER", "STATE", "STEPS", "PERSONA", "TASK")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────────────────────────────")
	for _, t := range thoughts {
		steps := "-"
		if t.Plan != nil {
			steps = fmt.Sprintf("%d/%d", t.StepsCompleted, len(t.Plan))
		}
		fmt.Fprintf(a.out, "%-21s %-4d %-12s %-7s %-18s %s\n",
			t.ThoughtID, t.Version, t.State(), steps, truncate(t.PersonaName, 18), truncate(t.InitialThought, 50))
	}
	fmt.Fprintln(a.out)
	return nil
}

// History lists every version of a thought.
func (a *ThoughtAdapter) History(ctx context.Context, thoughtID string) error {
	versions, err := a.service.ThoughtHistory(ctx, thoughtID)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	fmt.Fprintf(a.out, "\nHistory of %s\n", thoughtID)
	for _, v := range versions {
		label := string(v.State())
		if v.Plan != nil {
			label = fmt.Sprintf("%s %d/%d", label, v.StepsCompleted, len(v.Plan))
		}
		fmt.Fprintf(a.out, "  v%-3d %s  %s\n", v.Version, v.UpdatedAt.Format("2006-01-02 15:04:05"), label)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *ThoughtAdapter) progress(p primary.Progress) {
	fmt.Fprintf(a.out, "  %s\n", dim(fmt.Sprintf("[%s] %s", p.Tool, p.Status)))
}

func (a *ThoughtAdapter) printPlan(t *thought.Thought) {
	fmt.Fprintln(a.out, "\nPlan:")
	for i, s := range t.Plan {
		marker := " "
		switch {
		case i < t.StepsCompleted:
			marker = green("✓")
		case i == t.StepsCompleted && !t.Complete:
			marker = cyan("→")
		}
		fmt.Fprintf(a.out, "  %s %d. %s\n", marker, i+1, s.Format())
	}
}

func (a *ThoughtAdapter) printStep(r *primary.StepResult) {
	fmt.Fprintf(a.out, "%s %s (%d/%d)\n", green("✓"), r.Step.Format(), r.Thought.StepsCompleted, len(r.Thought.Plan))
	if r.Content != nil {
		fmt.Fprintf(a.out, "  produced %s\n", content.QualifiedID(r.Content))
	}
	if r.Thought.Complete {
		fmt.Fprintf(a.out, "%s Thought %s complete\n", green("✓"), r.Thought.ThoughtID)
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n  ")
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
