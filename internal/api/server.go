// Package api exposes drawing generation and canvas storage over HTTP, and
// provides a client for that API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rcliao/prompt-canvas/internal/generate"
	"github.com/rcliao/prompt-canvas/internal/metrics"
	"github.com/rcliao/prompt-canvas/internal/model"
	"github.com/rcliao/prompt-canvas/internal/session"
	"github.com/rcliao/prompt-canvas/internal/store"
)

const (
	maxRequestBody  = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the drawings API.
type Server struct {
	gen      session.Generator
	store    session.Storage
	logger   *zap.Logger
	metrics  *metrics.Collector
	origins  []string
	validate *validator.Validate
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics and serves them at /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// NewServer creates a server over gen and st.
func NewServer(gen session.Generator, st session.Storage, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		gen:      gen,
		store:    st,
		logger:   logger,
		origins:  []string{"*"},
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type addDrawRequest struct {
	Prompt           string          `json:"prompt" validate:"required"`
	ExistingDrawings []model.Drawing `json:"existingDrawings"`
}

type saveCanvasRequest struct {
	Title    string          `json:"title" validate:"required"`
	Drawings []model.Drawing `json:"drawings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routed handler with middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api/drawings", func(r chi.Router) {
		r.Post("/add-draw", s.addDraw)
		r.Post("/save-canvas", s.saveCanvas)
		r.Get("/all-canvases", s.allCanvases)
		r.Get("/{canvasId}", s.getCanvas)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.ObserveHTTP(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start))
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) addDraw(w http.ResponseWriter, r *http.Request) {
	var req addDrawRequest
	if !s.decode(w, r, &req) {
		return
	}

	shapes, err := s.gen.Generate(r.Context(), req.Prompt, req.ExistingDrawings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if shapes == nil {
		shapes = []model.Shape{}
	}
	writeJSON(w, http.StatusOK, shapes)
}

func (s *Server) saveCanvas(w http.ResponseWriter, r *http.Request) {
	var req saveCanvasRequest
	if !s.decode(w, r, &req) {
		return
	}

	saved, err := s.store.SaveCanvas(r.Context(), req.Title, req.Drawings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.ObserveSave()
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) allCanvases(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListCanvases(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getCanvas(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "canvasId"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "canvas id must be a positive integer"})
		return
	}

	c, err := s.store.LoadCanvas(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generate.ErrMalformed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generate.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnknownShapeType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
