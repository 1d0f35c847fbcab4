package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mcp-gateway/internal/config"
	"mcp-gateway/internal/llm"
	"mcp-gateway/internal/memory"
	"mcp-gateway/internal/service"
)

// Version is set at build time via ldflags.
var Version = "1.0.0"

// Server exposes the query orchestrator and memory store over HTTP.
type Server struct {
	cfg            *config.Config
	registry       *llm.Registry
	orchestrator   *service.Orchestrator
	store          *memory.Store
	router         chi.Router
	startTime      time.Time
	agentAvailable bool
}

// New creates the HTTP server and mounts all routes.
func New(cfg *config.Config, registry *llm.Registry, orchestrator *service.Orchestrator, store *memory.Store, agentAvailable bool) *Server {
	s := &Server{
		cfg:            cfg,
		registry:       registry,
		orchestrator:   orchestrator,
		store:          store,
		startTime:      time.Now(),
		agentAvailable: agentAvailable,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/test", s.handleTest)
		r.Get("/config", s.handleConfig)
		r.Get("/providers", s.handleListProviders)
		r.Get("/providers/{provider}/models", s.handleListModels)
		r.Post("/query", s.handleQuery)
		r.Get("/memory/stats", s.handleMemoryStats)
		r.Delete("/memory/clear", s.handleMemoryClear)
	})

	s.router = r
}

// Handler returns the mounted router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving HTTP until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
