package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/example/muse/internal/core/content"
	"github.com/example/muse/internal/core/plan"
	"github.com/example/muse/internal/core/prompts"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/ctxutil"
	"github.com/example/muse/internal/ports/primary"
	"github.com/example/muse/internal/ports/secondary"
)

const (
	// recentTaskCount is how many completed thoughts feed task elicitation.
	recentTaskCount = 5

	// incompleteListLimit bounds ListIncompleteThoughts.
	incompleteListLimit = 100
)

// Observer receives engine events. Implementations must be safe for concurrent use.
type Observer interface {
	ThoughtStarted(persona string)
	PlanDeveloped(steps int)
	StepFinished(tool plan.Tool, elapsed time.Duration, err error)
	ThoughtCompleted(persona string)
	VersionConflict()
}

type nopObserver struct{}

func (nopObserver) ThoughtStarted(string) {}
func (nopObserver) PlanDeveloped(int) {}
func (nopObserver) StepFinished(plan.Tool, time.Duration, error) {}
func (nopObserver) ThoughtCompleted(string) {}
func (nopObserver) VersionConflict() {}

// ThoughtServiceImpl implements the ThoughtService interface.
// It holds no per-thought state; every call works from the thought passed in
// and the latest version in the repository.
type ThoughtServiceImpl struct {
	thoughts  secondary.ThoughtRepository
	content   primary.ContentService
	personas  secondary.PersonaRegistry
	reasoning secondary.ReasoningBackend
	images    secondary.ImageBackend
	logger    *zap.Logger
	observer  Observer
	now       func() time.Time
	suffix    func() string
}

// NewThoughtService creates a new ThoughtService with injected dependencies.
// A nil observer disables event reporting.
func NewThoughtService(
	thoughts secondary.ThoughtRepository,
	contentService primary.ContentService,
	personas secondary.PersonaRegistry,
	reasoning secondary.ReasoningBackend,
	images secondary.ImageBackend,
	logger *zap.Logger,
	observer Observer,
) *ThoughtServiceImpl {
	if observer == nil {
		observer = nopObserver{}
	}
	return &ThoughtServiceImpl{
		thoughts:  thoughts,
		content:   contentService,
		personas:  personas,
		reasoning: reasoning,
		images:    images,
		logger:    logger,
		observer:  observer,
		now:       time.Now,
		suffix:    randomSuffix,
	}
}

func (s *ThoughtServiceImpl) stamp() time.Time {
	return s.now().UTC()
}

func (s *ThoughtServiceImpl) log(ctx context.Context) *zap.Logger {
	if runID := ctxutil.RunIDFromContext(ctx); runID != "" {
		return s.logger.With(zap.String("run_id", runID))
	}
	return s.logger
}

// StartNewThought elicits a task for the persona and persists version 1.
func (s *ThoughtServiceImpl) StartNewThought(ctx context.Context, req primary.StartThoughtRequest) (*thought.Thought, error) {
	persona, err := s.personas.Lookup(req.PersonaName)
	if err != nil {
		return nil, err
	}

	done := true
	recent, err := s.thoughts.List(ctx, secondary.ThoughtFilters{
		Complete:    &done,
		PersonaName: persona.Name,
		Limit:       recentTaskCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent thoughts: %w", err)
	}

	response, err := s.reasoning.Complete(ctx, prompts.NewThought(persona, recent, req.UserNudge))
	if err != nil {
		return nil, fmt.Errorf("failed to elicit task: %w", err)
	}

	task, err := thought.ParseTaskResponse(response)
	if err != nil {
		return nil, err
	}

	now := s.stamp()
	t := thought.New(thought.GenerateThoughtID(now, s.suffix()), thought.NewThought{
		PersonaName:    persona.Name,
		UserNudge:      req.UserNudge,
		InitialThought: task,
		Rationale:      response,
	}, now)

	if err := s.thoughts.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create thought: %w", err)
	}

	s.observer.ThoughtStarted(persona.Name)
	s.log(ctx).Info("thought started",
		zap.String("thought_id", t.ThoughtID),
		zap.String("persona", persona.Name),
		zap.String("task", task),
	)
	return t, nil
}

// DevelopThoughtPlan attaches a plan to an elicited thought.
func (s *ThoughtServiceImpl) DevelopThoughtPlan(ctx context.Context, t *thought.Thought) (*thought.Thought, error) {
	if t.Plan != nil {
		return t, nil
	}
	if err := thought.CanDevelopPlan(t).Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", thought.ErrInvalidTransition, err)
	}
	if err := s.checkLatest(ctx, t); err != nil {
		return nil, err
	}

	response, err := s.reasoning.Complete(ctx, prompts.PlanTask(t))
	if err != nil {
		return nil, fmt.Errorf("failed to develop plan: %w", err)
	}

	steps, err := plan.ParsePlan(response)
	if err != nil {
		return nil, err
	}

	next, err := t.Apply(thought.Update{Plan: steps}, s.stamp())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, t, next); err != nil {
		return nil, err
	}

	s.observer.PlanDeveloped(len(steps))
	s.log(ctx).Info("plan developed",
		zap.String("thought_id", t.ThoughtID),
		zap.Int("version", next.Version),
		zap.Int("steps", len(steps)),
	)
	return next, nil
}

// ContinueThought executes the next step of a planned thought.
func (s *ThoughtServiceImpl) ContinueThought(ctx context.Context, t *thought.Thought, progress primary.ProgressFunc) (*primary.StepResult, error) {
	if t.Complete {
		return nil, fmt.Errorf("%w: %s", thought.ErrThoughtComplete, t.ThoughtID)
	}
	if err := thought.CanContinue(t).Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", thought.ErrInvalidTransition, err)
	}

	if err := s.checkLatest(ctx, t); err != nil {
		return nil, err
	}

	persona, err := s.personas.Lookup(t.PersonaName)
	if err != nil {
		return nil, err
	}

	step, _ := t.NextStep()
	in := actionInput{thought: t, step: step, persona: persona, progress: progress}

	started := time.Now()
	out, err := s.dispatch(ctx, in)
	s.observer.StepFinished(step.ToolName, time.Since(started), err)
	if err != nil {
		s.log(ctx).Warn("step failed",
			zap.String("thought_id", t.ThoughtID),
			zap.String("tool", string(step.ToolName)),
			zap.Error(err),
		)
		return nil, err
	}

	completed := t.StepsCompleted + 1
	finished := completed == len(t.Plan)
	update := thought.Update{
		StepsCompleted:   &completed,
		Context:          &out.context,
		Complete:         &finished,
		LastFullResponse: &out.output,
	}
	if out.content != nil {
		update.AddContentIDs = []string{content.QualifiedID(out.content)}
	}

	next, err := t.Apply(update, s.stamp())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, t, next); err != nil {
		return nil, err
	}

	s.log(ctx).Info("step complete",
		zap.String("thought_id", t.ThoughtID),
		zap.String("tool", string(step.ToolName)),
		zap.Int("version", next.Version),
		zap.Int("steps_completed", completed),
		zap.Int("steps_total", len(t.Plan)),
	)
	if finished {
		s.observer.ThoughtCompleted(t.PersonaName)
	}

	return &primary.StepResult{
		Thought: next,
		Step:    step,
		Output:  out.output,
		Content: out.content,
	}, nil
}

// dispatch routes a step to its action handler.
func (s *ThoughtServiceImpl) dispatch(ctx context.Context, in actionInput) (*actionOutput, error) {
	switch in.step.ToolName {
	case plan.ToolQueryForInfo:
		return s.queryForInfo(ctx, in)
	case plan.ToolReadFromJournal:
		return s.readFromJournal(ctx, in)
	case plan.ToolReadLatestBlogs:
		return s.readLatestBlogs(ctx, in)
	case plan.ToolWriteInJournal:
		return s.writeInJournal(ctx, in)
	case plan.ToolCreateArt:
		return s.createArt(ctx, in)
	case plan.ToolWriteBlogPost:
		return s.writeBlogPost(ctx, in)
	case plan.ToolPostOnSocial:
		return s.postOnSocial(ctx, in)
	default:
		return nil, fmt.Errorf("%w: %q", plan.ErrUnhandledTool, in.step.ToolName)
	}
}

// checkLatest fails with a version conflict unless t is the stored latest version.
// Callers run it before any backend call.
func (s *ThoughtServiceImpl) checkLatest(ctx context.Context, t *thought.Thought) error {
	latest, err := s.thoughts.Get(ctx, t.ThoughtID, 0)
	if err != nil {
		return fmt.Errorf("failed to load latest version: %w", err)
	}
	if latest.Version != t.Version {
		s.observer.VersionConflict()
		return fmt.Errorf("%w: thought %s is at version %d, caller holds %d",
			secondary.ErrVersionConflict, t.ThoughtID, latest.Version, t.Version)
	}
	return nil
}

// persist writes next over base, counting lost races.
func (s *ThoughtServiceImpl) persist(ctx context.Context, base, next *thought.Thought) error {
	if err := s.thoughts.Update(ctx, base, next); err != nil {
		if errors.Is(err, secondary.ErrVersionConflict) {
			s.observer.VersionConflict()
		}
		return fmt.Errorf("failed to save thought %s v%d: %w", next.ThoughtID, next.Version, err)
	}
	return nil
}

// RunThought develops a plan if needed, then continues until complete.
func (s *ThoughtServiceImpl) RunThought(ctx context.Context, t *thought.Thought, progress primary.ProgressFunc) (*thought.Thought, error) {
	current, err := s.DevelopThoughtPlan(ctx, t)
	if err != nil {
		return nil, err
	}
	for !current.Complete {
		if err := ctx.Err(); err != nil {
			return current, err
		}
		result, err := s.ContinueThought(ctx, current, progress)
		if err != nil {
			return current, err
		}
		current = result.Thought
	}
	return current, nil
}

// GetThought retrieves the latest version of a thought.
func (s *ThoughtServiceImpl) GetThought(ctx context.Context, thoughtID string) (*thought.Thought, error) {
	return s.thoughts.Get(ctx, thoughtID, 0)
}

// GetThoughtVersion retrieves a specific version of a thought.
func (s *ThoughtServiceImpl) GetThoughtVersion(ctx context.Context, thoughtID string, version int) (*thought.Thought, error) {
	if version < 1 {
		return nil, fmt.Errorf("invalid version %d: versions start at 1", version)
	}
	return s.thoughts.Get(ctx, thoughtID, version)
}

// ThoughtHistory retrieves every version of a thought, oldest first.
func (s *ThoughtServiceImpl) ThoughtHistory(ctx context.Context, thoughtID string) ([]*thought.Thought, error) {
	return s.thoughts.ListVersions(ctx, thoughtID)
}

// ListIncompleteThoughts lists unfinished thoughts, newest first.
func (s *ThoughtServiceImpl) ListIncompleteThoughts(ctx context.Context) ([]*thought.Thought, error) {
	incomplete := false
	return s.thoughts.List(ctx, secondary.ThoughtFilters{Complete: &incomplete, Limit: incompleteListLimit})
}

// ListRecentlyCompleted lists finished thoughts, newest first.
func (s *ThoughtServiceImpl) ListRecentlyCompleted(ctx context.Context, personaName string, limit int) ([]*thought.Thought, error) {
	done := true
	return s.thoughts.List(ctx, secondary.ThoughtFilters{Complete: &done, PersonaName: personaName, Limit: limit})
}

// ListRecentThoughts lists thoughts of any status, newest first.
func (s *ThoughtServiceImpl) ListRecentThoughts(ctx context.Context, limit int) ([]*thought.Thought, error) {
	return s.thoughts.List(ctx, secondary.ThoughtFilters{Limit: limit})
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz"

func randomSuffix() string {
	b := make([]byte, thought.IDSuffixLen)
	n := big.NewInt(int64(len(suffixAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand failed: %v", err))
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b)
}

// Ensure ThoughtServiceImpl implements the interface
var _ primary.ThoughtService = (*ThoughtServiceImpl)(nil)
