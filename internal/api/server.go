// Package api exposes the analysis engine over HTTP. Identity resolution is
// deliberately thin: a registered caller presents X-User-ID, everyone else is
// keyed by network origin.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/service"
)

// Server serves the analysis API
type Server struct {
	analyzer   *service.AnalyzerService
	settlement *service.SettlementService
	parlays    repository.ParlayRepository
	server     *http.Server
	logger     *logrus.Logger
	port       string
}

// Config holds the API server configuration
type Config struct {
	Port       string
	Analyzer   *service.AnalyzerService
	Settlement *service.SettlementService
	Parlays    repository.ParlayRepository
	Logger     *logrus.Logger
}

// analyzeRequest is the body of POST /v1/analyze
type analyzeRequest struct {
	Legs []service.LegRequest `json:"legs"`
}

// settleRequest is the body of POST /v1/parlays/{id}/settle
type settleRequest struct {
	Status models.ParlayStatus `json:"status"`
	Payout *decimal.Decimal    `json:"payout"`
}

// errorResponse is the uniform error body
type errorResponse struct {
	Error        string  `json:"error"`
	RetrySeconds float64 `json:"retry_seconds,omitempty"`
}

// NewServer creates the API server
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = "8081"
	}
	return &Server{
		analyzer:   cfg.Analyzer,
		settlement: cfg.Settlement,
		parlays:    cfg.Parlays,
		logger:     cfg.Logger,
		port:       port,
	}
}

// Start starts the API server in the background
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/v1/usage", s.handleUsage)
	mux.HandleFunc("/v1/parlays/", s.handleParlays)
	mux.HandleFunc("/v1/summary", s.handleSummary)

	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.port).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// handleAnalyze runs a governed parlay analysis for the caller's identity
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	analysis, err := s.analyzer.AnalyzeParlay(r.Context(), identityFrom(r), req.Legs, time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// handleUsage reports the caller's quota standing without consuming a slot
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status, err := s.analyzer.Usage(r.Context(), identityFrom(r), time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// handleParlays serves GET /v1/parlays/{id} and POST /v1/parlays/{id}/settle
func (s *Server) handleParlays(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/parlays/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parlay id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.getParlay(w, r, id)
	case len(parts) == 2 && parts[1] == "settle" && r.Method == http.MethodPost:
		s.settleParlay(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) getParlay(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := s.parlays.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) settleParlay(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.settlement.Settle(r.Context(), id, req.Status, req.Payout, time.Now().UTC()); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSummary reports the caller's historical performance
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.settlement.Summarize(r.Context(), identityFrom(r).Key, 0)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// writeServiceError maps domain errors onto HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var quotaErr *models.QuotaExceededError
	var cooldownErr *models.CooldownActiveError

	switch {
	case errors.As(err, &quotaErr):
		w.Header().Set("Retry-After", fmt.Sprintf("%.0f", quotaErr.ResetIn.Seconds()))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:        err.Error(),
			RetrySeconds: quotaErr.ResetIn.Seconds(),
		})
	case errors.As(err, &cooldownErr):
		w.Header().Set("Retry-After", fmt.Sprintf("%.0f", cooldownErr.RetryIn.Seconds()))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:        err.Error(),
			RetrySeconds: cooldownErr.RetryIn.Seconds(),
		})
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrInvalidProposition),
		errors.Is(err, models.ErrEmptyParlay),
		errors.Is(err, models.ErrTooManyLegs),
		errors.Is(err, models.ErrAlreadySettled):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// identityFrom resolves the caller identity. A registered caller presents its
// account identifier in X-User-ID; anonymous callers are keyed by origin host.
func identityFrom(r *http.Request) models.Identity {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return models.Identity{Key: "user:" + userID, Registered: true}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return models.Identity{Key: "anon:" + host, Registered: false}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
