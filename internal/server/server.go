// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	POST /render?format=svg&engine=graphviz   diagram document in, artifact out
//	GET  /icons                               registered icon names
//	GET  /healthz                             liveness and build version
//
// Errors are JSON objects {"code": ..., "error": ...} with a status derived
// from the error code.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archdraw/pkg/buildinfo"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/pipeline"
)

// DefaultMaxBody bounds the size of a posted document.
const DefaultMaxBody = 4 << 20

// Options configures a Server.
type Options struct {
	Config  config.Values // base options for every render; nil means config.Defaults()
	MaxBody int64
	Timeout time.Duration // per-request render timeout; zero means none
	Logger  *log.Logger
}

// Server handles render requests with a shared Runner.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a server around runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.Defaults()
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.Logger == nil {
		opts.Logger = runner.Logger
	}
	s := &Server{runner: runner, opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)
	if s.opts.Timeout > 0 {
		r.Use(chimiddleware.Timeout(s.opts.Timeout))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/icons", s.icons)
	r.Post("/render", s.render)
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

func (s *Server) icons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"icons": s.runner.Icons.Names()})
}

type errorBody struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Status maps an error to an HTTP status by its code.
func Status(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnknownEntity, errors.ErrCodeDuplicateID,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeConfigMissing, errors.ErrCodeLayoutFailure:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Error: msg, RequestID: requestIDFrom(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
