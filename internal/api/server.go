// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
	"github.com/taibuivan/rankeverything/internal/platform/config"
	"github.com/taibuivan/rankeverything/internal/platform/constants"
	"github.com/taibuivan/rankeverything/internal/platform/middleware"
	"github.com/taibuivan/rankeverything/internal/platform/respond"
	"github.com/taibuivan/rankeverything/internal/thing"
)

// Banner is the plain-text body served at the root path.
const Banner = "Under construction! This is the Rank Everything backend. It will also probably be the distribution page."

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 only when the store (and cache, if any) answer.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition format. Optional.
	Metrics http.Handler

	// Thing serves submissions, pairs, votes and search.
	Thing *thing.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.SecureHeaders(cfg.IsDevelopment()))
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	r.NotFound(unknownPath)

	// # Infrastructure Endpoints
	r.Get("/", banner)
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Application API
	r.Route("/api/v1", h.Thing.RegisterRoutes)
	h.Thing.RegisterLegacyRoutes(r)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// banner handles GET /.
func banner(writer http.ResponseWriter, _ *http.Request) {
	respond.Text(writer, http.StatusOK, Banner)
}

// unknownPath answers every unmatched route with the requested directory.
func unknownPath(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.UnknownPath(strings.TrimPrefix(request.URL.Path, "/")))
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
