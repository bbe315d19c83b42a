package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/markdave123-py/bharathi/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/bharathi/internal/api/middlewares"
	"github.com/markdave123-py/bharathi/internal/config"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, svc handlers.IngestRunner, log *zap.Logger) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv, log: log}
}

func newRouter(cfg *config.Config, svc handlers.IngestRunner, log *zap.Logger) http.Handler {
	ingestHandler := handlers.NewIngestHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		if cfg.JWTSecret != "" {
			api.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret))
		}
		// synchronous ingestion spans several LLM calls, so no request timeout here
		api.Post("/ingest", ingestHandler.Ingest)
		api.With(middleware.Timeout(10*time.Second)).Post("/ingest/async", ingestHandler.IngestAsync)
	})

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
