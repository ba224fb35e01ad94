// Package server exposes the pipeline over HTTP.
//
// The server is a thin shell around [pipeline.Runner]: every endpoint maps
// straight onto one pipeline execution, and all caching happens in the
// runner, so concurrent requests for the same modulus only pay for one
// layout.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/modgraph/modgraph/pkg/errors"
	"github.com/modgraph/modgraph/pkg/pipeline"
)

// contentTypes maps artifact extensions to response content types.
var contentTypes = map[string]string{
	"asy":  "text/plain; charset=utf-8",
	"dot":  "text/vnd.graphviz; charset=utf-8",
	"svg":  "image/svg+xml",
	"json": "application/json",
}

// Server serves layouts and artifacts over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server on top of runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/graphs/{modulus}", func(r chi.Router) {
		r.Get("/", s.handleLayout)
		r.Get("/artifacts/{name}", s.handleArtifact)
	})
	return r
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		s.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "modgraph",
		"endpoints": []string{
			"/healthz",
			"/graphs/{modulus}",
			"/graphs/{modulus}/artifacts/{name}",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout runs the pipeline for the requested modulus and returns the
// layout as JSON.
func (s *Server) handleLayout(w http.ResponseWriter, req *http.Request) {
	opts, ok := s.optionsFromRequest(w, req)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(req.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes["json"])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[jsonArtifact(opts.Modulus)])
}

// handleArtifact runs the pipeline for the format implied by the requested
// file name and returns that single artifact.
func (s *Server) handleArtifact(w http.ResponseWriter, req *http.Request) {
	opts, ok := s.optionsFromRequest(w, req)
	if !ok {
		return
	}

	name := chi.URLParam(req, "name")
	ext := name[strings.LastIndex(name, ".")+1:]
	if _, known := contentTypes[ext]; !known || !pipeline.ValidFormats[ext] {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown artifact " + name})
		return
	}
	opts.Formats = []string{ext}

	result, err := s.runner.Execute(req.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, found := result.Artifacts[name]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown artifact " + name})
		return
	}
	w.Header().Set("Content-Type", contentTypes[ext])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// optionsFromRequest parses the modulus path parameter and optional query
// parameters. On failure it writes the error response and returns false.
func (s *Server) optionsFromRequest(w http.ResponseWriter, req *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options

	modulus, err := strconv.Atoi(chi.URLParam(req, "modulus"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "modulus must be an integer"})
		return opts, false
	}
	opts.Modulus = modulus

	q := req.URL.Query()
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seed must be an integer"})
			return opts, false
		}
		opts.Seed = seed
	}
	if v := q.Get("strategy"); v != "" {
		opts.Strategy = v
	}
	if q.Get("refresh") == "true" {
		opts.Refresh = true
	}
	return opts, true
}

// writeError maps pipeline errors onto HTTP statuses: configuration
// problems are the client's fault, everything else is ours.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsConfiguration(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("pipeline failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func jsonArtifact(modulus int) string {
	return strconv.Itoa(modulus) + ".json"
}
