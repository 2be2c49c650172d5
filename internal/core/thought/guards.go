package thought

import (
	"fmt"

	"github.com/example/muse/internal/core/plan"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanDevelopPlan evaluates whether a plan may be derived for the thought.
// Rules:
// - Thought must be in the elicited state (no plan yet)
func CanDevelopPlan(t *Thought) GuardResult {
	if state := t.State(); state != StateElicited {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("thought %s is %s, expected %s", t.ThoughtID, state, StateElicited),
		}
	}
	return GuardResult{Allowed: true}
}

// CanContinue evaluates whether the next step of the thought may run.
// Rules:
// - Thought must have a plan
// - Thought must not be complete
// - At least one step must remain
func CanContinue(t *Thought) GuardResult {
	switch t.State() {
	case StateElicited:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("thought %s has no plan", t.ThoughtID),
		}
	case StateComplete:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("thought %s is already complete", t.ThoughtID),
		}
	}
	if t.StepsCompleted >= len(t.Plan) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("thought %s has no remaining steps", t.ThoughtID),
		}
	}
	return GuardResult{Allowed: true}
}

// CheckInvariants evaluates whether next is a valid successor of prev.
// Rules:
// - Identity and creation fields are unchanged
// - Version advances by exactly one
// - An existing plan is never replaced
// - steps_completed is non-decreasing and within [0, len(plan)]
// - complete holds exactly when every step is done
func CheckInvariants(prev, next *Thought) GuardResult {
	if next.ThoughtID != prev.ThoughtID || next.PersonaName != prev.PersonaName || !next.CreatedAt.Equal(prev.CreatedAt) {
		return GuardResult{Allowed: false, Reason: "thought identity fields cannot change"}
	}
	if next.Version != prev.Version+1 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("version must advance from %d to %d, got %d", prev.Version, prev.Version+1, next.Version),
		}
	}
	if prev.Plan != nil && !plan.Equal(prev.Plan, next.Plan) {
		return GuardResult{Allowed: false, Reason: "plan cannot change once set"}
	}
	if next.StepsCompleted < prev.StepsCompleted {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("steps_completed cannot decrease from %d to %d", prev.StepsCompleted, next.StepsCompleted),
		}
	}
	if next.StepsCompleted < 0 || next.StepsCompleted > len(next.Plan) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("steps_completed %d out of range for %d steps", next.StepsCompleted, len(next.Plan)),
		}
	}
	done := next.Plan != nil && next.StepsCompleted == len(next.Plan)
	if next.Complete != done {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("complete=%t does not match %d/%d steps", next.Complete, next.StepsCompleted, len(next.Plan)),
		}
	}
	return GuardResult{Allowed: true}
}
