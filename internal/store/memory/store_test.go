package memory

import (
	"errors"
	"testing"

	"github.com/eduscout/eduscout/internal/project"
)

func record(id, name string) project.Project {
	return project.Project{
		ID:       id,
		Name:     name,
		Category: project.CategoryUnsuitable,
		Status:   project.StatusUnanalyzed,
	}
}

func TestReplaceAllAndListPreservesOrder(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll([]project.Project{record("a", "A"), record("b", "B"), record("c", "C")})

	got := s.List()
	if len(got) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Fatalf("List()[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}

	// A refresh replaces the set wholesale.
	s.ReplaceAll([]project.Project{record("d", "D")})
	got = s.List()
	if len(got) != 1 || got[0].ID != "d" {
		t.Fatalf("after refresh List() = %+v", got)
	}
	if _, ok := s.Get("a"); ok {
		t.Fatalf("stale record survived refresh")
	}
}

func TestBeginAnalysisGuardsDuplicates(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll([]project.Project{record("a", "A")})

	snapshot, err := s.BeginAnalysis("a")
	if err != nil {
		t.Fatalf("BeginAnalysis() error = %v", err)
	}
	if snapshot.Status != project.StatusUnanalyzed {
		t.Fatalf("snapshot status = %q, want pre-transition status", snapshot.Status)
	}
	if stored, _ := s.Get("a"); stored.Status != project.StatusAnalyzing {
		t.Fatalf("stored status = %q, want analyzing", stored.Status)
	}

	if _, err := s.BeginAnalysis("a"); !errors.Is(err, ErrAnalysisInFlight) {
		t.Fatalf("second BeginAnalysis error = %v, want ErrAnalysisInFlight", err)
	}
	if _, err := s.BeginAnalysis("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("BeginAnalysis(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCompleteAnalysisReplacesWholeRecord(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll([]project.Project{record("a", "A")})
	if _, err := s.BeginAnalysis("a"); err != nil {
		t.Fatalf("BeginAnalysis() error = %v", err)
	}

	score := 64
	updated := project.Project{
		ID:               "a",
		Name:             "A",
		SuitabilityScore: &score,
		Category:         project.CategoryBoth,
		EducationalPlan:  "plan",
		Status:           project.StatusAnalyzed,
	}
	if err := s.CompleteAnalysis(updated); err != nil {
		t.Fatalf("CompleteAnalysis() error = %v", err)
	}

	got, _ := s.Get("a")
	if got.Status != project.StatusAnalyzed || got.SuitabilityScore == nil || *got.SuitabilityScore != 64 {
		t.Fatalf("record after completion = %+v", got)
	}

	// Begin again is allowed once the first analysis finished.
	if _, err := s.BeginAnalysis("a"); err != nil {
		t.Fatalf("re-analysis blocked: %v", err)
	}

	if err := s.CompleteAnalysis(record("gone", "G")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CompleteAnalysis(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestAbortAnalysisRestoresStatus(t *testing.T) {
	t.Parallel()

	s := New()
	s.ReplaceAll([]project.Project{record("a", "A")})
	if _, err := s.BeginAnalysis("a"); err != nil {
		t.Fatalf("BeginAnalysis() error = %v", err)
	}

	s.AbortAnalysis("a", project.StatusUnanalyzed)
	got, _ := s.Get("a")
	if got.Status != project.StatusUnanalyzed {
		t.Fatalf("status after abort = %q, want unanalyzed", got.Status)
	}

	// Aborting a vanished record is a no-op.
	s.AbortAnalysis("missing", project.StatusUnanalyzed)
}
