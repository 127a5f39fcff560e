package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/courtside/internal/models"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

type fakeJobs struct {
	running bool
}

func (f *fakeJobs) IsRunning() bool { return f.running }

type fakeTeams struct {
	teams []*models.TeamStats
	err   error
}

func (f *fakeTeams) List(ctx context.Context) ([]*models.TeamStats, error) {
	return f.teams, f.err
}

func newTestHealthServer(cfg Config) *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg.ServiceName = "courtside-test"
	cfg.Version = "test"
	cfg.Port = "0"
	cfg.Logger = log
	return NewServer(cfg)
}

func readyChecks(t *testing.T, srv *Server) (int, ReadyResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	srv.handleReady(rec, req)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHandleHealth(t *testing.T) {
	srv := newTestHealthServer(Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "courtside-test", resp.Service)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHandleReadyNotReady(t *testing.T) {
	srv := newTestHealthServer(Config{DB: &fakePinger{}})

	code, resp := readyChecks(t, srv)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", resp.Checks["service"])
}

func TestHandleReadyHealthy(t *testing.T) {
	srv := newTestHealthServer(Config{
		DB:   &fakePinger{},
		Jobs: &fakeJobs{running: true},
	})
	srv.SetReady(true)

	code, resp := readyChecks(t, srv)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Checks["database"])
	assert.Equal(t, "running", resp.Checks["jobs"])
}

func TestHandleReadyDatabaseDown(t *testing.T) {
	srv := newTestHealthServer(Config{DB: &fakePinger{err: errors.New("connection refused")}})
	srv.SetReady(true)

	code, resp := readyChecks(t, srv)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks["database"], "connection refused")
}

func TestHandleReadyStoppedJobs(t *testing.T) {
	srv := newTestHealthServer(Config{
		DB:   &fakePinger{},
		Jobs: &fakeJobs{},
	})
	srv.SetReady(true)

	code, resp := readyChecks(t, srv)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "stopped", resp.Checks["jobs"])
}

func TestHandleReadyStaleTeamStatsDoesNotGate(t *testing.T) {
	srv := newTestHealthServer(Config{
		DB: &fakePinger{},
		Teams: &fakeTeams{teams: []*models.TeamStats{
			{Abbreviation: "BOS", UpdatedAt: time.Now().UTC().Add(-72 * time.Hour)},
		}},
	})
	srv.SetReady(true)

	code, resp := readyChecks(t, srv)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "stale", resp.Checks["team_stats"])
}

func TestHandleReadyFreshTeamStats(t *testing.T) {
	srv := newTestHealthServer(Config{
		DB: &fakePinger{},
		Teams: &fakeTeams{teams: []*models.TeamStats{
			{Abbreviation: "BOS", UpdatedAt: time.Now().UTC().Add(-time.Hour)},
		}},
	})
	srv.SetReady(true)

	code, resp := readyChecks(t, srv)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "fresh", resp.Checks["team_stats"])
}

func TestHandleReadyMissingTeamStats(t *testing.T) {
	srv := newTestHealthServer(Config{
		DB:    &fakePinger{},
		Teams: &fakeTeams{},
	})
	srv.SetReady(true)

	code, resp := readyChecks(t, srv)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "missing", resp.Checks["team_stats"])
}
