package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/sitetrack/internal/models"
)

const (
	defaultListLimit    = 50
	defaultHistoryLimit = 30
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	filters := models.ListFilters{
		Limit:  queryInt(r, "limit", defaultListLimit),
		Offset: queryInt(r, "offset", 0),
	}
	if filters.Limit == 0 {
		filters.Limit = defaultListLimit
	}

	projects, err := s.tracker.ListProjects(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err, "list projects")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    len(projects),
	})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.tracker.CreateProject(r.Context(), req.Project())
	if err != nil {
		respondServiceError(w, err, "create project")
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.tracker.GetProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get project", "id", id)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.ProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.tracker.UpdateProject(r.Context(), id, req.Project())
	if err != nil {
		respondServiceError(w, err, "update project", "id", id)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.tracker.DeleteProject(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete project", "id", id)
		return
	}

	if s.snapshots != nil {
		if err := s.snapshots.Delete(r.Context(), id); err != nil {
			slog.Warn("failed to delete project history", "error", err, "id", id)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "project deleted",
	})
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := s.tracker.Schedule(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "build schedule", "id", id)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetScheduleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if s.snapshots == nil {
		respondError(w, http.StatusServiceUnavailable, "history_unavailable", "schedule history is not enabled")
		return
	}

	if _, err := s.tracker.GetProject(r.Context(), id); err != nil {
		respondServiceError(w, err, "get project", "id", id)
		return
	}

	limit := queryInt(r, "limit", defaultHistoryLimit)
	if limit == 0 {
		limit = defaultHistoryLimit
	}

	history, err := s.snapshots.List(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, err, "load schedule history", "id", id)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": history,
		"total":     len(history),
	})
}
