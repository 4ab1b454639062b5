// Package api exposes the recoding pipeline over HTTP for server mode, next to
// the MCP protocol served over server-sent events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-highlight-recoder/internal/config"
	"github.com/a3tai/mcp-highlight-recoder/internal/convert"
	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
	"github.com/a3tai/mcp-highlight-recoder/internal/workspace"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

type Server struct {
	router  *chi.Mux
	config  *config.Config
	service *pipeline.Service
}

// NewServer builds the router. mcpHandler, when non-nil, is mounted on /sse and
// /message.
func NewServer(cfg *config.Config, service *pipeline.Service, mcpHandler http.Handler) *Server {
	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		config:  cfg,
		service: service,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", s.info)
		r.Get("/files", s.listFiles)
		r.Get("/questions", s.searchQuestions)
		r.Post("/pages", s.findPages)
		r.Post("/extract", s.extract)
		r.Post("/split", s.split)
		r.Post("/match", s.match)
		r.Post("/general", s.general)
		r.Post("/recode", s.recode)
		r.Post("/analyze", s.analyze)
	})

	if mcpHandler != nil {
		router.Handle("/sse", mcpHandler)
		router.Handle("/message", mcpHandler)
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("API server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("API server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown: %w", err)
	}
	return nil
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", ww.Header().Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var shapeErr *labels.ShapeError
	switch {
	case errors.Is(err, workspace.ErrOutside):
		return http.StatusForbidden
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, convert.ErrUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, pdf.ErrNotPDF):
		return http.StatusUnsupportedMediaType
	case pdf.IsDecodeError(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &shapeErr),
		errors.Is(err, pdf.ErrNoPages),
		errors.Is(err, pipeline.ErrInvalidCase),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

var errBadRequest = errors.New("bad request")

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"server_name":         s.config.ServerName,
		"version":             s.config.Version,
		"directory":           s.service.Workspace().Dir(),
		"max_file_size":       s.config.MaxFileSize,
		"max_pages":           s.config.MaxPages,
		"y_threshold":         s.service.YThreshold(),
		"party1":              s.config.Party1,
		"party2":              s.config.Party2,
		"converter_available": s.service.Converter().Available(),
		"cache":               s.service.CacheStats(),
	})
}
