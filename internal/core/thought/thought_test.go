package thought

import (
	"errors"
	"testing"
	"time"

	"github.com/example/muse/internal/core/plan"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestNew(t *testing.T) {
	th := New("20240101120000abcdef", NewThought{
		PersonaName:    "Lucas Darkthorn",
		InitialThought: "I will paint the moor.",
		Rationale:      "## RATIONALE\n...\n## Task\nI will paint the moor.",
	}, testNow)

	if th.Version != 1 {
		t.Errorf("expected version 1, got %d", th.Version)
	}
	if th.State() != StateElicited {
		t.Errorf("expected elicited, got %s", th.State())
	}
	if !th.CreatedAt.Equal(testNow) || !th.UpdatedAt.Equal(testNow) {
		t.Errorf("timestamps not set")
	}
}

func TestApply_AttachPlan(t *testing.T) {
	th := thoughtAt(nil, 0, false)
	later := testNow.Add(time.Minute)

	next, err := th.Apply(Update{Plan: twoStepPlan()}, later)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if next.Version != th.Version+1 {
		t.Errorf("expected version %d, got %d", th.Version+1, next.Version)
	}
	if next.State() != StatePlanned {
		t.Errorf("expected planned, got %s", next.State())
	}
	if !next.UpdatedAt.Equal(later) {
		t.Errorf("expected UpdatedAt to advance")
	}
	if th.Plan != nil {
		t.Errorf("Apply must not mutate the receiver")
	}
}

func TestApply_PlanIsSetOnce(t *testing.T) {
	th := thoughtAt(twoStepPlan(), 0, false)

	_, err := th.Apply(Update{Plan: []plan.Step{{ToolName: plan.ToolCreateArt, Purpose: "other"}}}, testNow)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApply_EmptyPlanRejected(t *testing.T) {
	th := thoughtAt(nil, 0, false)

	_, err := th.Apply(Update{Plan: []plan.Step{}}, testNow)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApply_StepProgression(t *testing.T) {
	th := thoughtAt(twoStepPlan(), 0, false)

	first, err := th.Apply(Update{
		StepsCompleted: intPtr(1),
		Context:        strPtr("learned things"),
	}, testNow)
	if err != nil {
		t.Fatalf("first step failed: %v", err)
	}
	if first.State() != StateInProgress {
		t.Errorf("expected in progress, got %s", first.State())
	}

	second, err := first.Apply(Update{
		StepsCompleted: intPtr(2),
		Complete:       boolPtr(true),
		Context:        strPtr("journal text"),
		AddContentIDs:  []string{"JournalEntry:20240101120000aaaaaaaaaa"},
	}, testNow)
	if err != nil {
		t.Fatalf("second step failed: %v", err)
	}
	if second.State() != StateComplete {
		t.Errorf("expected complete, got %s", second.State())
	}
	if second.Context != "journal text" {
		t.Errorf("unexpected context %q", second.Context)
	}

	_, err = second.Apply(Update{Context: strPtr("more")}, testNow)
	if !errors.Is(err, ErrThoughtComplete) {
		t.Errorf("expected ErrThoughtComplete, got %v", err)
	}
}

func TestApply_CompletionMustMatchSteps(t *testing.T) {
	th := thoughtAt(twoStepPlan(), 1, false)

	if _, err := th.Apply(Update{StepsCompleted: intPtr(2)}, testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition when finishing without complete, got %v", err)
	}
	if _, err := th.Apply(Update{Complete: boolPtr(true)}, testNow); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition when completing early, got %v", err)
	}
}

func TestApply_ContentIDsAreAnOrderedSet(t *testing.T) {
	th := thoughtAt(twoStepPlan(), 0, false)
	th.GeneratedContentIDs = []string{"Art:a"}

	next, err := th.Apply(Update{AddContentIDs: []string{"Art:a", "SocialPost:b"}}, testNow)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := []string{"Art:a", "SocialPost:b"}
	if len(next.GeneratedContentIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, next.GeneratedContentIDs)
	}
	for i := range want {
		if next.GeneratedContentIDs[i] != want[i] {
			t.Errorf("expected %v, got %v", want, next.GeneratedContentIDs)
		}
	}
	if len(th.GeneratedContentIDs) != 1 {
		t.Errorf("Apply must not mutate the receiver's content ids")
	}
}

func TestNextStep(t *testing.T) {
	th := thoughtAt(twoStepPlan(), 1, false)
	step, ok := th.NextStep()
	if !ok || step.ToolName != plan.ToolWriteInJournal {
		t.Errorf("expected WriteInJournal, got %v (%v)", step, ok)
	}

	done := thoughtAt(twoStepPlan(), 2, true)
	if _, ok := done.NextStep(); ok {
		t.Errorf("expected no next step for complete thought")
	}
}

func TestParseTaskResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "marker on last line",
			response: "## RATIONALE\nBecause.\n\n## Task\nI will paint a storm over the moor.",
			want:     "I will paint a storm over the moor.",
		},
		{
			name:     "trailing whitespace is ignored",
			response: "## Task\n  I will write a poem.  \n\n",
			want:     "I will write a poem.",
		},
		{
			name:     "marker not on last line",
			response: "## Task\nI will write.\nLet me know what you think!",
			wantErr:  true,
		},
		{
			name:     "lowercase marker",
			response: "i will write.",
			wantErr:  true,
		},
		{
			name:     "empty",
			response: "\n\n",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaskResponse(tt.response)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedTaskResponse) {
					t.Fatalf("expected ErrMalformedTaskResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGenerateThoughtID(t *testing.T) {
	id := GenerateThoughtID(time.Date(2024, 3, 5, 7, 9, 11, 0, time.UTC), "qwerty")
	if id != "20240305070911qwerty" {
		t.Errorf("unexpected id %q", id)
	}
	if err := ValidateThoughtID(id); err != nil {
		t.Errorf("generated id failed validation: %v", err)
	}

	earlier := GenerateThoughtID(time.Date(2024, 3, 5, 7, 9, 10, 0, time.UTC), "zzzzzz")
	if !(earlier < id) {
		t.Errorf("expected ids to sort by creation time: %s !< %s", earlier, id)
	}

	for _, bad := range []string{"", "20240305070911QWERTY", "2024030507091qwerty1", "abcdefghijklmnqwerty"} {
		if err := ValidateThoughtID(bad); err == nil {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}
