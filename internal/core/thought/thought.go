// Package thought contains the pure business logic for thoughts.
// This is part of the Functional Core - no I/O, only pure functions.
package thought

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/example/muse/internal/core/plan"
)

// ErrThoughtComplete is returned when an operation targets a finished thought.
var ErrThoughtComplete = errors.New("thought is complete")

// ErrInvalidTransition is returned when an update would break a thought invariant.
var ErrInvalidTransition = errors.New("invalid thought transition")

// State is the derived lifecycle state of a thought.
type State string

const (
	StateElicited   State = "elicited"
	StatePlanned    State = "planned"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Thought is one versioned snapshot of a persona's task lifecycle.
type Thought struct {
	ThoughtID           string
	Version             int
	PersonaName         string
	UserNudge           string
	InitialThought      string
	Rationale           string
	Plan                []plan.Step
	StepsCompleted      int
	Context             string
	Complete            bool
	GeneratedContentIDs []string
	LastFullResponse    string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewThought holds the data produced by task elicitation.
type NewThought struct {
	PersonaName    string
	UserNudge      string
	InitialThought string
	Rationale      string
}

// New builds version 1 of a thought.
func New(id string, data NewThought, now time.Time) *Thought {
	return &Thought{
		ThoughtID:      id,
		Version:        1,
		PersonaName:    data.PersonaName,
		UserNudge:      data.UserNudge,
		InitialThought: data.InitialThought,
		Rationale:      data.Rationale,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// State derives the lifecycle state from the plan and progress fields.
func (t *Thought) State() State {
	switch {
	case t.Plan == nil:
		return StateElicited
	case t.Complete:
		return StateComplete
	case t.StepsCompleted == 0:
		return StatePlanned
	default:
		return StateInProgress
	}
}

// NextStep returns the step to execute next, if any remain.
func (t *Thought) NextStep() (plan.Step, bool) {
	if t.Plan == nil || t.StepsCompleted >= len(t.Plan) {
		return plan.Step{}, false
	}
	return t.Plan[t.StepsCompleted], true
}

// Clone returns a deep copy of the thought.
func (t *Thought) Clone() *Thought {
	c := *t
	c.Plan = slices.Clone(t.Plan)
	c.GeneratedContentIDs = slices.Clone(t.GeneratedContentIDs)
	return &c
}

// Update describes a partial change to a thought. Nil fields are left alone.
type Update struct {
	Plan             []plan.Step
	StepsCompleted   *int
	Context          *string
	Complete         *bool
	AddContentIDs    []string
	LastFullResponse *string
}

// Apply returns the next version of the thought with the update applied.
// It enforces the thought invariants:
//   - the plan is set at most once and never replaced
//   - steps_completed never decreases and never exceeds len(plan)
//   - complete is true exactly when steps_completed == len(plan)
//   - a complete thought accepts no further updates
func (t *Thought) Apply(u Update, now time.Time) (*Thought, error) {
	if t.Complete {
		return nil, fmt.Errorf("%w: %s", ErrThoughtComplete, t.ThoughtID)
	}

	next := t.Clone()
	next.Version = t.Version + 1
	next.UpdatedAt = now

	if u.Plan != nil {
		if t.Plan != nil {
			return nil, fmt.Errorf("%w: plan already set for %s", ErrInvalidTransition, t.ThoughtID)
		}
		if len(u.Plan) == 0 {
			return nil, fmt.Errorf("%w: plan must have at least one step", ErrInvalidTransition)
		}
		next.Plan = slices.Clone(u.Plan)
	}
	if u.StepsCompleted != nil {
		next.StepsCompleted = *u.StepsCompleted
	}
	if u.Context != nil {
		next.Context = *u.Context
	}
	if u.Complete != nil {
		next.Complete = *u.Complete
	}
	if u.LastFullResponse != nil {
		next.LastFullResponse = *u.LastFullResponse
	}
	for _, id := range u.AddContentIDs {
		if !slices.Contains(next.GeneratedContentIDs, id) {
			next.GeneratedContentIDs = append(next.GeneratedContentIDs, id)
		}
	}

	if err := CheckInvariants(t, next).Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	return next, nil
}
