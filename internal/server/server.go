// Package server exposes compile, evaluate and graph storage over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /nodes                 node type catalogue
//	POST   /compile               graph JSON -> blocks and assembled source
//	POST   /evaluate?node=<id>    graph JSON -> host-side value
//	GET    /graphs                stored documents, newest first
//	POST   /graphs                store a new document
//	GET    /graphs/{id}
//	PUT    /graphs/{id}
//	DELETE /graphs/{id}
//	POST   /graphs/{id}/compile
//
// Errors are returned as {"error": {"code", "message", "node", "block"}}.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/observability"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
	"github.com/matzehuels/shadergraph/pkg/store"
)

// maxBody caps request bodies.
const maxBody = 4 << 20

// Server serves the HTTP API. Each request decodes its own graph, so the
// handlers share only the runner, the store and the read-only registry.
type Server struct {
	Runner   *pipeline.Runner
	Store    store.Store
	Registry *graph.Registry
	// Defaults are the compile options requests start from.
	Defaults pipeline.Options
	Logger   *log.Logger
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, st store.Store, reg *graph.Registry, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{Runner: runner, Store: st, Registry: reg, Defaults: defaults, Logger: logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/nodes", s.handleNodes)
	r.Post("/compile", s.handleCompile)
	r.Post("/evaluate", s.handleEvaluate)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.handleListGraphs)
		r.Post("/", s.handleCreateGraph)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Put("/", s.handlePutGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Post("/compile", s.handleCompileStored)
		})
	})
	return r
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
