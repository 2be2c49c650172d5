package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/muse/internal/adapters/sqlite"
	"github.com/example/muse/internal/core/thought"
	"github.com/example/muse/internal/db"
	"github.com/example/muse/internal/ports/secondary"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestThoughtRepository_CreateAndGet(t *testing.T) {
	for _, driver := range []string{db.DriverCGO, db.DriverPure} {
		t.Run(driver, func(t *testing.T) {
			repo := sqlite.NewThoughtRepository(setupTestDBWithDriver(t, driver))
			ctx := context.Background()

			th := newTestThought("20240101120000abcdef", "Lucas Darkthorn")
			th.UserNudge = "mimics"
			if err := repo.Create(ctx, th); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			for _, version := range []int{0, 1} {
				got, err := repo.Get(ctx, th.ThoughtID, version)
				if err != nil {
					t.Fatalf("Get(v%d) failed: %v", version, err)
				}
				if got.Version != 1 {
					t.Errorf("v%d: expected version 1, got %d", version, got.Version)
				}
				if got.UserNudge != "mimics" || got.InitialThought != th.InitialThought || got.Rationale != th.Rationale {
					t.Errorf("v%d: fields did not round trip: %+v", version, got)
				}
				if got.Plan != nil {
					t.Errorf("v%d: expected no plan, got %v", version, got.Plan)
				}
				if !got.CreatedAt.Equal(seedTime) {
					t.Errorf("v%d: expected created_at %v, got %v", version, seedTime, got.CreatedAt)
				}
			}
		})
	}
}

func TestThoughtRepository_CreateTwiceFails(t *testing.T) {
	repo := sqlite.NewThoughtRepository(setupTestDB(t))
	ctx := context.Background()

	th := newTestThought("20240101120000abcdef", "Lucas Darkthorn")
	if err := repo.Create(ctx, th); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := repo.Create(ctx, th)
	if !errors.Is(err, secondary.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestThoughtRepository_GetMissing(t *testing.T) {
	repo := sqlite.NewThoughtRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), "20240101120000zzzzzz", 0)
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestThoughtRepository_Update(t *testing.T) {
	repo := sqlite.NewThoughtRepository(setupTestDB(t))
	ctx := context.Background()

	v1 := newTestThought("20240101120000abcdef", "Lucas Darkthorn")
	if err := repo.Create(ctx, v1); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	v2, err := v1.Apply(thought.Update{Plan: testPlan()}, seedTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := repo.Update(ctx, v1, v2); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	v3, err := v2.Apply(thought.Update{
		StepsCompleted: intPtr(1),
		Context:        strPtr("I created art"),
		AddContentIDs:  []string{"Art:20240101120100aaaaaaaaaa"},
	}, seedTime.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := repo.Update(ctx, v2, v3); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	latest, err := repo.Get(ctx, v1.ThoughtID, 0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if latest.Version != 3 || latest.StepsCompleted != 1 || latest.Context != "I created art" {
		t.Errorf("alias not advanced: %+v", latest)
	}
	if len(latest.Plan) != 2 || len(latest.GeneratedContentIDs) != 1 {
		t.Errorf("plan or content ids lost: %+v", latest)
	}

	old, err := repo.Get(ctx, v1.ThoughtID, 2)
	if err != nil {
		t.Fatalf("Get(v2) failed: %v", err)
	}
	if old.StepsCompleted != 0 || old.Context != "" {
		t.Errorf("version 2 was modified: %+v", old)
	}

	history, err := repo.ListVersions(ctx, v1.ThoughtID)
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(history))
	}
	for i, h := range history {
		if h.Version != i+1 {
			t.Errorf("history[%d] has version %d", i, h.Version)
		}
	}
}

func TestThoughtRepository_StaleUpdateConflicts(t *testing.T) {
	repo := sqlite.NewThoughtRepository(setupTestDB(t))
	ctx := context.Background()

	v1 := newTestThought("20240101120000abcdef", "Lucas Darkthorn")
	if err := repo.Create(ctx, v1); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	winner, _ := v1.Apply(thought.Update{Plan: testPlan()}, seedTime)
	loser, _ := v1.Apply(thought.Update{Plan: testPlan()[:1]}, seedTime)

	if err := repo.Update(ctx, v1, winner); err != nil {
		t.Fatalf("first Update failed: %v", err)
	}
	err := repo.Update(ctx, v1, loser)
	if !errors.Is(err, secondary.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	latest, err := repo.Get(ctx, v1.ThoughtID, 0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(latest.Plan) != 2 {
		t.Errorf("expected winner's plan, got %v", latest.Plan)
	}
	history, _ := repo.ListVersions(ctx, v1.ThoughtID)
	if len(history) != 2 {
		t.Errorf("expected no version written by the loser, got %d versions", len(history))
	}
}

func TestThoughtRepository_ConcurrentUpdatesExactlyOneWins(t *testing.T) {
	repo := sqlite.NewThoughtRepository(setupTestDB(t))
	ctx := context.Background()

	base := newTestThought("20240101120000abcdef", "Lucas Darkthorn")
	if err := repo.Create(ctx, base); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
		winnerCtx string
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			label := string(rune('a' + i))
			next, err := base.Apply(thought.Update{Context: strPtr(label)}, seedTime)
			if err != nil {
				t.Errorf("Apply failed: %v", err)
				return
			}
			err = repo.Update(ctx, base, next)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
				winnerCtx = label
			case errors.Is(err, secondary.ErrVersionConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflicts != writers-1 {
		t.Fatalf("expected 1 win and %d conflicts, got %d and %d", writers-1, wins, conflicts)
	}

	latest, err := repo.Get(ctx, base.ThoughtID, 0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if latest.Version != 2 || latest.Context != winnerCtx {
		t.Errorf("expected only the winner's change, got version %d context %q (winner %q)",
			latest.Version, latest.Context, winnerCtx)
	}
}

func TestThoughtRepository_UpdateMissing(t *testing.T) {
	repo := sqlite.NewThoughtRepository(setupTestDB(t))

	base := newTestThought("20240101120000abcdef", "Lucas Darkthorn")
	next, _ := base.Apply(thought.Update{Context: strPtr("x")}, seedTime)

	err := repo.Update(context.Background(), base, next)
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestThoughtRepository_List(t *testing.T) {
	repo := sqlite.NewThoughtRepository(setupTestDB(t))
	ctx := context.Background()

	ids := []string{"20240101120000aaaaaa", "20240101120001bbbbbb", "20240101120002cccccc"}
	for _, id := range ids {
		if err := repo.Create(ctx, newTestThought(id, "Lucas Darkthorn")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := newTestThought("20240101120003dddddd", "Mira Vance")
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Complete the middle thought with a one-step plan.
	v1, _ := repo.Get(ctx, ids[1], 0)
	v2, _ := v1.Apply(thought.Update{Plan: testPlan()[:1]}, seedTime)
	if err := repo.Update(ctx, v1, v2); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	v3, err := v2.Apply(thought.Update{StepsCompleted: intPtr(1), Complete: boolPtr(true)}, seedTime)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := repo.Update(ctx, v2, v3); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tests := []struct {
		name    string
		filters secondary.ThoughtFilters
		want    []string
	}{
		{"all newest first", secondary.ThoughtFilters{}, []string{other.ThoughtID, ids[2], ids[1], ids[0]}},
		{"limit", secondary.ThoughtFilters{Limit: 2}, []string{other.ThoughtID, ids[2]}},
		{"incomplete", secondary.ThoughtFilters{Complete: boolPtr(false)}, []string{other.ThoughtID, ids[2], ids[0]}},
		{"complete", secondary.ThoughtFilters{Complete: boolPtr(true)}, []string{ids[1]}},
		{"persona", secondary.ThoughtFilters{PersonaName: "Mira Vance"}, []string{other.ThoughtID}},
		{"persona incomplete", secondary.ThoughtFilters{PersonaName: "Lucas Darkthorn", Complete: boolPtr(false)}, []string{ids[2], ids[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d thoughts, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i].ThoughtID != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], got[i].ThoughtID)
				}
			}
		})
	}

	// Only alias rows are listed: the completed thought appears once at its latest version.
	complete, _ := repo.List(ctx, secondary.ThoughtFilters{Complete: boolPtr(true)})
	if complete[0].Version != 3 || !complete[0].Complete {
		t.Errorf("expected latest version of completed thought, got %+v", complete[0])
	}
}
