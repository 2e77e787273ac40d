package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/sitetrack/internal/models"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filters := models.TaskFilters{
		Status:   models.TaskStatus(r.URL.Query().Get("status")),
		Category: models.Category(r.URL.Query().Get("category")),
	}
	if filters.Status != "" && !filters.Status.IsValid() {
		respondError(w, http.StatusBadRequest, "validation_error", "unknown status filter")
		return
	}
	if filters.Category != "" && !filters.Category.IsValid() {
		respondError(w, http.StatusBadRequest, "validation_error", "unknown category filter")
		return
	}

	tasks, err := s.tracker.ListTasks(r.Context(), id, filters)
	if err != nil {
		respondServiceError(w, err, "list tasks", "project_id", id)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := s.tracker.CreateTask(r.Context(), id, req.Task())
	if err != nil {
		respondServiceError(w, err, "create task", "project_id", id)
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := s.tracker.GetTask(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get task", "id", id)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handlePatchTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch models.TaskPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	t, err := s.tracker.PatchTask(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, err, "patch task", "id", id)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.tracker.DeleteTask(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete task", "id", id)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "task deleted",
	})
}
