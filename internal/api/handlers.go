package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ternarybob/planr/internal/logger"
	"github.com/ternarybob/planr/pkg/history"
	"github.com/ternarybob/planr/pkg/plan"
)

// version is set via -ldflags at build time
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
}

// Response types

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// ModelsResponse is the response for /models.
type ModelsResponse struct {
	Models  []string `json:"models"`
	Current string   `json:"current"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Model:  s.generator.Model(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version,
		Service: "planr-service",
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models := s.models.Models()
	if models == nil {
		models = []string{}
	}

	writeJSON(w, http.StatusOK, ModelsResponse{
		Models:  models,
		Current: s.generator.Model(),
	})
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	log := logger.GetLogger()

	var req plan.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Goal is required", "Please provide a goal")
		return
	}

	log.Info().Str("goal", req.Goal).Msg("Generating plan")

	p, err := s.generator.Generate(r.Context(), &req)
	if err != nil {
		log.Warn().Err(err).Str("goal", req.Goal).Msg("Plan generation failed")

		var genErr *plan.GenerationError
		if errors.As(err, &genErr) {
			writeJSON(w, http.StatusInternalServerError, genErr.Payload())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate plan", err.Error())
		return
	}

	// History is not load-bearing: storage failures degrade it, never the
	// plan response.
	item, err := s.store.Record(req.Goal, p)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to record plan history")
	} else if s.similar != nil {
		if err := s.similar.Add(r.Context(), item); err != nil {
			log.Warn().Err(err).Msg("Failed to index plan goal")
		}
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	items := s.store.List()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "History item not found", "")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear history", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSimilarHistory(w http.ResponseWriter, r *http.Request) {
	goal := r.URL.Query().Get("goal")
	if goal == "" {
		writeError(w, http.StatusBadRequest, "Goal is required", "Provide a goal query parameter")
		return
	}

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	// Best effort: without an index or embeddings this is just empty
	matches, err := s.similar.Query(r.Context(), goal, limit)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("Similarity query failed")
		matches = nil
	}
	if matches == nil {
		matches = []history.Match{}
	}

	writeJSON(w, http.StatusOK, matches)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, plan.Error{Error: message, Details: details})
}
