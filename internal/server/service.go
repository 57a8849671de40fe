// Package server implements the HTTP entry points for docsearch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/usmedlab/docsearch/internal/chat"
	"github.com/usmedlab/docsearch/internal/config"
	"github.com/usmedlab/docsearch/internal/fileguard"
	"github.com/usmedlab/docsearch/internal/sqlexec"
	"github.com/usmedlab/docsearch/internal/synthesizer"
)

// Synthesizer produces SQL query text from free-text requests.
type Synthesizer interface {
	Synthesize(ctx context.Context, userText string) synthesizer.SynthesizedQuery
}

// Executor runs query text against the data engine.
type Executor interface {
	Execute(ctx context.Context, sqlText string, opts sqlexec.Options) *sqlexec.Result
	CountRecords(ctx context.Context) (int, error)
}

// Service wires the components behind the HTTP surface. Each request is
// handled independently; the only shared state is the durable store.
type Service struct {
	cfg     *config.Config
	synth   Synthesizer
	exec    Executor
	chats   *chat.Store
	guard   *fileguard.Guard
	router  chi.Router
	metrics *metricsSet
}

// New creates the service and mounts its routes.
func New(cfg *config.Config, synth Synthesizer, exec Executor, chats *chat.Store, guard *fileguard.Guard) *Service {
	svc := &Service{
		cfg:     cfg,
		synth:   synth,
		exec:    exec,
		chats:   chats,
		guard:   guard,
		router:  chi.NewRouter(),
		metrics: newMetrics(),
	}
	svc.setupRoutes()
	return svc
}

// Router exposes the handler tree, mainly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

func (s *Service) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.countRequests)

	s.router.Post("/query", s.handleQuery)
	s.router.Post("/run-sql", s.handleRunSQL)
	s.router.Post("/summary-chat", s.handleSummaryChat)
	s.router.Post("/analyse-chat", s.handleAnalyseChat)
	s.router.Get("/open-file", s.handleOpenFile)
	s.router.Post("/save-chats", s.handleSaveChats)
	s.router.Get("/chats", s.handleListChats)
	s.router.Get("/health", s.handleHealth)

	// Everything else is the SPA with index fallback.
	s.router.NotFound(s.handleSPA)
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Service) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Int("port", s.cfg.Port).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}
