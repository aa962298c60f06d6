// internal/server/server.go
// Package server exposes the parser as an HTTP service.
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chronoview/watchparser/internal/config"
	"github.com/chronoview/watchparser/internal/monitoring"
	"github.com/chronoview/watchparser/internal/parser"
	"github.com/chronoview/watchparser/internal/utils"
)

// Server routes parse requests to a shared engine configuration. Each
// request gets its own engine instance so concurrent uploads cannot
// share run state.
type Server struct {
	cfg     *config.Config
	log     utils.Logger
	metrics *monitoring.Metrics
	router  *mux.Router
}

// New creates a server.
func New(cfg *config.Config, log utils.Logger, metrics *monitoring.Metrics) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = utils.NopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		router:  mux.NewRouter(),
	}

	s.router.HandleFunc("/api/v1/parse", s.handleParse).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if metrics != nil {
		s.router.Handle(cfg.Server.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	return s, nil
}

// Router returns the HTTP handler tree.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleParse accepts the raw export document in the request body and
// returns records plus statistics. Entry-level problems never produce an
// HTTP error; only an unreadable document does.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large or unreadable")
		return
	}

	engine, err := parser.NewEngine(s.cfg,
		parser.WithLogger(s.log),
		parser.WithMetrics(s.metrics),
	)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "engine setup failed")
		return
	}

	result, err := engine.Parse(r.Context(), string(body))
	if err != nil {
		s.log.Warnf("parse rejected: %v", err)
		s.writeError(w, http.StatusUnprocessableEntity, "input is not a parseable export document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.log.Errorf("response encoding failed: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
