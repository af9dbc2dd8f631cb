// Package api provides the REST API and web UI for planr-service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ternarybob/planr/internal/config"
	"github.com/ternarybob/planr/pkg/history"
	"github.com/ternarybob/planr/pkg/plan"
)

// Generator produces plans for requests. Satisfied by *plan.Generator.
type Generator interface {
	Generate(ctx context.Context, req *plan.Request) (*plan.Plan, error)
	Model() string
}

// ModelLister exposes the available model identifiers of the active backend.
type ModelLister interface {
	Models() []string
}

// Server represents the API server.
type Server struct {
	cfg       *config.Config
	generator Generator
	models    ModelLister
	store     *history.Store
	similar   *history.SimilarityIndex
	router    chi.Router
}

// NewServer creates a new API server. The similarity index may be nil.
func NewServer(cfg *config.Config, generator Generator, models ModelLister, store *history.Store, similar *history.SimilarityIndex) *Server {
	s := &Server{
		cfg:       cfg,
		generator: generator,
		models:    models,
		store:     store,
		similar:   similar,
	}

	s.setupRouter()
	return s
}

// setupRouter configures all routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute)) // Local models can be slow

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Plan generation
	r.Post("/generate-plan", s.handleGeneratePlan)

	// Service endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/models", s.handleModels)

	// Plan history
	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.handleListHistory)
		r.Delete("/", s.handleClearHistory)
		r.Get("/similar", s.handleSimilarHistory)
		r.Get("/{id}", s.handleGetHistory)
	})

	// Web UI
	r.Get("/", s.handleIndex)
	r.Get("/static/*", s.handleStatic)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
