package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPClient() *RateLimitedHTTPClient {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000 // no throttling in tests
	cfg.MaxRetries = 0
	return NewRateLimitedHTTPClient(cfg, log)
}

func testClient(baseURL, apiKey string) *StatsAPIClient {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewStatsAPIClient(testHTTPClient(), baseURL, apiKey, log)
}

func TestFetchGameLogsParsesAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/lebron-james/gamelog", r.URL.Path)
		assert.Equal(t, "2026", r.URL.Query().Get("season"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date": "2026-01-02", "opponent": "BOS", "location": "@", "pts": 28, "ast": 8, "trb": 7, "three_p": 3, "status": "active"},
			{"date": "2026-01-04", "opponent": "WSH", "location": "vs", "pts": 31, "ast": 6, "trb": 9, "three_p": 2, "status": "active"},
			{"date": "2026-01-06", "opponent": "MIA", "location": "vs", "status": "dnp"},
			{"date": "not-a-date", "opponent": "NYK", "location": "vs", "pts": 10, "status": "active"}
		]`))
	}))
	defer server.Close()

	client := testClient(server.URL, "test-key")

	logs, err := client.FetchGameLogs(context.Background(), "lebron-james", 2026)
	require.NoError(t, err)

	// DNP and malformed rows are skipped.
	require.Len(t, logs, 2)
	assert.Equal(t, "BOS", logs[0].Opponent)
	assert.False(t, logs[0].Home)
	assert.Equal(t, 28.0, logs[0].Points)
	assert.True(t, logs[1].Home)
	assert.Equal(t, time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), logs[1].GameDate)
}

func TestFetchGameLogsAuthenticationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(server.URL, "bad-key")

	_, err := client.FetchGameLogs(context.Background(), "someone", 2026)
	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
}

func TestFetchGameLogsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := testClient(server.URL, "")

	_, err := client.FetchGameLogs(context.Background(), "someone", 2026)
	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
}

func TestFetchTeamStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/stats", r.URL.Path)
		w.Write([]byte(`[
			{"abbreviation": "BOS", "name": "Boston Celtics", "def_rtg": 108.2, "pace": 97.1},
			{"abbreviation": "WSH", "name": "Washington Wizards", "def_rtg": 118.5, "pace": 103.4}
		]`))
	}))
	defer server.Close()

	client := testClient(server.URL, "")

	teams, err := client.FetchTeamStats(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "BOS", teams[0].Abbreviation)
	assert.Equal(t, 108.2, teams[0].DefensiveRating)
	assert.Equal(t, 103.4, teams[1].Pace)
}

func TestRetryPolicyRetriesThrottling(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 2
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	client := NewStatsAPIClient(NewRateLimitedHTTPClient(cfg, log), server.URL, "", log)

	logs, err := client.FetchGameLogs(context.Background(), "someone", 2026)
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Equal(t, 2, attempts)
}
