// Package memory holds the session-scoped working set of project records.
package memory

import (
	"errors"
	"sync"

	"github.com/eduscout/eduscout/internal/project"
)

// Errors returned by working-set operations.
var (
	ErrNotFound         = errors.New("project not found")
	ErrAnalysisInFlight = errors.New("analysis already in flight")
)

// Store is the in-memory working set. Records are replaced whole, keyed by
// id; no field is ever mutated in place. Document order from discovery is
// preserved for listing.
type Store struct {
	mu      sync.RWMutex
	order   []string
	records map[string]project.Project
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		records: make(map[string]project.Project),
	}
}

// ReplaceAll swaps in a freshly discovered working set, discarding the
// previous one. Re-discovery assigns new ids, so stale entries never
// survive a refresh.
func (s *Store) ReplaceAll(projects []project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = make([]string, 0, len(projects))
	s.records = make(map[string]project.Project, len(projects))
	for _, p := range projects {
		s.order = append(s.order, p.ID)
		s.records[p.ID] = p
	}
}

// List returns the working set in discovery order.
func (s *Store) List() []project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]project.Project, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Get fetches one record by id.
func (s *Store) Get(id string) (project.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[id]
	return p, ok
}

// BeginAnalysis marks a record as analyzing and returns its pre-transition
// snapshot for the pipeline to work on. It fails with ErrAnalysisInFlight if
// the record is already analyzing, which serializes per-id invocations.
func (s *Store) BeginAnalysis(id string) (project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[id]
	if !ok {
		return project.Project{}, ErrNotFound
	}
	if p.Status == project.StatusAnalyzing {
		return project.Project{}, ErrAnalysisInFlight
	}
	snapshot := p
	p.Status = project.StatusAnalyzing
	s.records[id] = p
	return snapshot, nil
}

// CompleteAnalysis replaces the record with the analyzed result from the
// pipeline. The record must still exist; refresh during analysis drops the
// result with ErrNotFound, which callers treat as a stale working set.
func (s *Store) CompleteAnalysis(p project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[p.ID]; !ok {
		return ErrNotFound
	}
	s.records[p.ID] = p
	return nil
}

// AbortAnalysis restores a record to the status it held before
// BeginAnalysis, used when the pipeline fails before producing a record.
func (s *Store) AbortAnalysis(id string, previous project.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[id]
	if !ok {
		return
	}
	p.Status = previous
	s.records[id] = p
}
