// Package health serves the engine's operational endpoints: container probes
// and the Prometheus scrape target. Readiness reflects what an analysis
// actually needs — a reachable database and live background jobs. Team-stat
// staleness is reported but never gates readiness, because a leg evaluation
// degrades to an unadjusted mean when matchup data is unavailable.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
)

// DatabasePinger checks database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// JobRunner reports whether the background job scheduler is running.
type JobRunner interface {
	IsRunning() bool
}

// TeamStatsLister yields the stored opponent statistics, used to judge how
// stale the matchup data has become.
type TeamStatsLister interface {
	List(ctx context.Context) ([]*models.TeamStats, error)
}

// Team stats older than this are flagged stale; the nightly sync should have
// replaced them by then.
const defaultTeamStatsMaxAge = 48 * time.Hour

// StatusResponse is the body of /health and /live.
type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server hosts the probe and metrics endpoints next to the analysis API.
type Server struct {
	cfg     Config
	port    string
	server  *http.Server
	started time.Time
	mu      sync.RWMutex
	ready   bool
}

// Config holds the health server's dependencies. DB, Jobs, and Teams are each
// optional; a nil dependency skips its check.
type Config struct {
	ServiceName     string
	Version         string
	Port            string
	TeamStatsMaxAge time.Duration
	Logger          *logrus.Logger
	DB              DatabasePinger
	Jobs            JobRunner
	Teams           TeamStatsLister
}

// NewServer creates the health server.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8080"
	}
	if cfg.TeamStatsMaxAge <= 0 {
		cfg.TeamStatsMaxAge = defaultTeamStatsMaxAge
	}

	return &Server{
		cfg:     cfg,
		port:    port,
		started: time.Now().UTC(),
	}
}

// SetReady marks the engine as ready to take analysis traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the engine has been marked ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start starts the health server in the background.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)
	mux.Handle("/metrics", metrics.Handler())

	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if s.cfg.Logger != nil {
			s.cfg.Logger.WithFields(logrus.Fields{
				"port":    s.port,
				"service": s.cfg.ServiceName,
			}).Info("Health server starting")
		}

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.cfg.Logger != nil {
				s.cfg.Logger.WithError(err).Error("Health server error")
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the health server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	if s.cfg.Logger != nil {
		s.cfg.Logger.Info("Health server shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Version: s.cfg.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
	})
}

// handleReady runs the dependency checks. Database connectivity and job
// liveness gate readiness; team-stat staleness is informational only.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks, healthy := s.runChecks(r.Context())

	response := ReadyResponse{
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	status := http.StatusOK
	response.Status = "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		response.Status = "not_ready"
	}
	writeJSON(w, status, response)
}

func (s *Server) runChecks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	healthy := true

	if s.IsReady() {
		checks["service"] = "ok"
	} else {
		checks["service"] = "not_ready"
		healthy = false
	}

	if s.cfg.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		if err := s.cfg.DB.Ping(pingCtx); err != nil {
			checks["database"] = fmt.Sprintf("error: %v", err)
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	if s.cfg.Jobs != nil {
		if s.cfg.Jobs.IsRunning() {
			checks["jobs"] = "running"
		} else {
			checks["jobs"] = "stopped"
			healthy = false
		}
	}

	if s.cfg.Teams != nil {
		checks["team_stats"] = s.teamStatsCheck(ctx)
	}

	return checks, healthy
}

// teamStatsCheck reports how current the matchup data is. Missing or stale
// stats only cost the model its matchup adjustment, so the result never
// affects the readiness verdict.
func (s *Server) teamStatsCheck(ctx context.Context) string {
	teams, err := s.cfg.Teams.List(ctx)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if len(teams) == 0 {
		return "missing"
	}

	var newest time.Time
	for _, ts := range teams {
		if ts.UpdatedAt.After(newest) {
			newest = ts.UpdatedAt
		}
	}
	if time.Since(newest) > s.cfg.TeamStatsMaxAge {
		return "stale"
	}
	return "fresh"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
