// Package server exposes the harness pipeline over HTTP.
//
// Routes:
//
//	POST   /v1/validate          design in, diagnostics out
//	POST   /v1/export            design in, exchange document out
//	POST   /v1/diagram           design in, DOT or SVG out
//	GET    /v1/documents         list stored documents
//	PUT    /v1/documents/{key}   design in, stored document info out
//	GET    /v1/documents/{key}   stored document
//	DELETE /v1/documents/{key}   remove a stored document
//	GET    /healthz              liveness and version
//	GET    /metrics              Prometheus exposition
//
// Design bodies are TOML, YAML or JSON. The format comes from the "format"
// query parameter, then the Content-Type header, and defaults to JSON.
// Diagrams default to SVG; ?output=dot returns the DOT source instead.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/harnesskit/pkg/buildinfo"
	"github.com/matzehuels/harnesskit/pkg/design"
	"github.com/matzehuels/harnesskit/pkg/diagram"
	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/harness"
	"github.com/matzehuels/harnesskit/pkg/pipeline"
	"github.com/matzehuels/harnesskit/pkg/store"
)

// DefaultMaxBody caps request bodies.
const DefaultMaxBody = 4 << 20

// Server serves the harness API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	metrics *Metrics
	logger  *log.Logger
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /v1/documents routes.
func WithStore(s store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithMetrics serves m on /metrics and records request metrics into it.
func WithMetrics(m *Metrics) Option {
	return func(srv *Server) { srv.metrics = m }
}

// WithMaxBody sets the request body limit in bytes.
func WithMaxBody(n int64) Option {
	return func(srv *Server) {
		if n > 0 {
			srv.maxBody = n
		}
	}
}

// New creates a server around runner. A nil logger uses the runner's logger.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger, maxBody: DefaultMaxBody}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/export", s.handleExport)
		r.Post("/diagram", s.handleDiagram)
		if s.store != nil {
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", s.handleListDocuments)
				r.Put("/{key}", s.handlePutDocument)
				r.Get("/{key}", s.handleGetDocument)
				r.Delete("/{key}", s.handleDeleteDocument)
			})
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
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
		if s.metrics != nil {
			s.metrics.observeRequest(route, r.Method, status, d)
		}
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	h, ok := s.readHarness(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Validate(r.Context(), h))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	h, ok := s.readHarness(w, r)
	if !ok {
		return
	}
	if queryBool(r, "strict") {
		if err := s.runner.Validate(r.Context(), h).Err(); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	_, data, err := s.runner.Serialize(r.Context(), h)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	format := diagram.FormatSVG
	if f := r.URL.Query().Get("output"); f != "" {
		var err error
		if format, err = diagram.ParseFormat(f); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	h, ok := s.readHarness(w, r)
	if !ok {
		return
	}
	out, hit, err := s.runner.Diagram(r.Context(), h, format, queryBool(r, "detailed"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if format == diagram.FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	h, ok := s.readHarness(w, r)
	if !ok {
		return
	}
	info, err := store.SaveHarness(r.Context(), s.store, chi.URLParam(r, "key"), h)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) readHarness(w http.ResponseWriter, r *http.Request) (*harness.Harness, bool) {
	format, err := requestFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
		} else {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		}
		return nil, false
	}
	h, err := s.runner.Parse(r.Context(), data, format)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return h, true
}

// requestFormat resolves the design encoding of a request body.
func requestFormat(r *http.Request) (design.Format, error) {
	switch f := design.Format(r.URL.Query().Get("format")); f {
	case design.FormatTOML, design.FormatYAML, design.FormatJSON:
		return f, nil
	case "":
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported design format %q", f)
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return design.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "content type")
	}
	switch mediaType {
	case "application/toml", "text/toml":
		return design.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return design.FormatYAML, nil
	case "application/json", "text/plain":
		return design.FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported content type %q", mediaType)
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	body.Error.Message = errors.UserMessage(err)
	if stderrors.Is(err, store.ErrNotFound) {
		body.Error.Code = errors.ErrCodeNotFound
	}
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	status := statusFor(body.Error.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		body.Error.Message = "internal error"
	}
	writeJSON(w, status, body)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeMissingField, errors.ErrCodeMissingWire, errors.ErrCodeMissingTarget,
		errors.ErrCodeDuplicateIdentifier, errors.ErrCodeLabelNotFound:
		return http.StatusBadRequest
	case errors.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
