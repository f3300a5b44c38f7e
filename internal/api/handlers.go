package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eduscout/eduscout/internal/classifier"
	"github.com/eduscout/eduscout/internal/store/memory"
)

// refreshProjects runs a fresh discovery pass and replaces the working set
// with the result. An empty listing is a normal outcome, not an error.
func (s *Server) refreshProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.pipeline.LoadAll(r.Context())
	s.store.ReplaceAll(projects)
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) listProjects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"projects": s.store.List()})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "project_id")
	p, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": p})
}

// analyzeProject runs enrichment and classification for one record. The
// store's analyzing transition serializes concurrent requests for the same
// id: the second caller gets 409 while the first is in flight.
func (s *Server) analyzeProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "project_id")

	snapshot, err := s.store.BeginAnalysis(id)
	switch {
	case errors.Is(err, memory.ErrNotFound):
		writeError(w, http.StatusNotFound, "project not found")
		return
	case errors.Is(err, memory.ErrAnalysisInFlight):
		writeError(w, http.StatusConflict, "analysis already in progress")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := s.pipeline.AnalyzeOne(r.Context(), snapshot)
	if err != nil {
		s.store.AbortAnalysis(id, snapshot.Status)
		if errors.Is(err, classifier.ErrNoCredential) {
			writeError(w, http.StatusServiceUnavailable,
				"AI credential not configured; set EDUSCOUT_AI_API_KEY to enable analysis")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.store.CompleteAnalysis(updated); err != nil {
		// The working set was refreshed while this analysis ran; the
		// record no longer exists and the result is dropped.
		s.logger.Warn("analysis result discarded",
			zap.String("project_id", id),
			zap.Error(err),
		)
		writeError(w, http.StatusGone, "project removed by refresh during analysis")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": updated})
}
