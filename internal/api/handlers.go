package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/terra-clan/sitetrack/internal/health"
	"github.com/terra-clan/sitetrack/internal/models"
	"github.com/terra-clan/sitetrack/internal/tracker"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondServiceError maps tracker and validation errors to HTTP responses.
// action is used in the log line and the message of unexpected failures.
func respondServiceError(w http.ResponseWriter, err error, action string, attrs ...any) {
	switch {
	case errors.Is(err, models.ErrInvalidDateRange):
		respondError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
	case models.IsValidation(err):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, tracker.ErrEmptyPatch):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, tracker.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, "not_found", "project not found")
	case errors.Is(err, tracker.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, "not_found", "task not found")
	default:
		slog.Error("failed to "+action, append([]any{"error", err}, attrs...)...)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+action)
	}
}

// decodeBody decodes a JSON request body, answering 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if models.IsValidation(err) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter, falling back to def
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Ping(r.Context()); err != nil {
		slog.Warn("readiness check failed", "check", "tracker", "error", err)
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	checks := map[string]string{}
	if s.health != nil {
		results := s.health.HealthCheckAll(r.Context())
		for name, err := range results {
			checks[name] = "ok"
			if err != nil {
				slog.Warn("readiness check failed", "check", name, "error", err)
				checks[name] = err.Error()
			}
		}
		if !health.Healthy(results) {
			respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"checks": checks,
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}

// Phase handlers

func (s *Server) handleListPhases(w http.ResponseWriter, r *http.Request) {
	phases := s.tracker.Phases()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"phases": phases,
		"total":  len(phases),
	})
}
