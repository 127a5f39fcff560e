package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const sourceName = "stats_api"

// StatsAPIClient implements GameLogSource against a hosted NBA stats API
type StatsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// statsAPIGameLog represents one game line in the provider's response
type statsAPIGameLog struct {
	Date          string   `json:"date"`
	Opponent      string   `json:"opponent"`
	Location      string   `json:"location"`
	Minutes       *float64 `json:"minutes"`
	Points        *float64 `json:"pts"`
	Assists       *float64 `json:"ast"`
	Rebounds      *float64 `json:"trb"`
	ThreePointers *float64 `json:"three_p"`
	Steals        *float64 `json:"stl"`
	Blocks        *float64 `json:"blk"`
	Turnovers     *float64 `json:"tov"`
	Status        string   `json:"status"`
}

// statsAPITeam represents one team row in the provider's response
type statsAPITeam struct {
	Abbreviation    string  `json:"abbreviation"`
	Name            string  `json:"name"`
	DefensiveRating float64 `json:"def_rtg"`
	Pace            float64 `json:"pace"`
}

// NewStatsAPIClient creates a new stats API client
func NewStatsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *StatsAPIClient {
	return &StatsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *StatsAPIClient) Name() string {
	return sourceName
}

// FetchGameLogs retrieves a player's game lines for a season. Rows marked
// inactive or did-not-play carry no stat values and are skipped.
func (c *StatsAPIClient) FetchGameLogs(ctx context.Context, playerRef string, season int) ([]GameLogData, error) {
	endpoint := fmt.Sprintf("%s/players/%s/gamelog?season=%d", c.baseURL, url.PathEscape(playerRef), season)

	body, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var rows []statsAPIGameLog
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "failed to parse game log response", err)
	}

	logs := make([]GameLogData, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if row.Status == "inactive" || row.Status == "dnp" || row.Points == nil {
			skipped++
			continue
		}
		gameDate, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			skipped++
			continue
		}
		logs = append(logs, GameLogData{
			GameDate:      gameDate,
			Opponent:      row.Opponent,
			Home:          row.Location != "@",
			Minutes:       deref(row.Minutes),
			Points:        deref(row.Points),
			Assists:       deref(row.Assists),
			Rebounds:      deref(row.Rebounds),
			ThreePointers: deref(row.ThreePointers),
			Steals:        deref(row.Steals),
			Blocks:        deref(row.Blocks),
			Turnovers:     deref(row.Turnovers),
		})
	}

	c.logger.WithFields(logrus.Fields{
		"player":  playerRef,
		"season":  season,
		"games":   len(logs),
		"skipped": skipped,
	}).Debug("Fetched game logs")

	return logs, nil
}

// FetchTeamStats retrieves current defensive rating and pace for all teams
func (c *StatsAPIClient) FetchTeamStats(ctx context.Context) ([]TeamStatsData, error) {
	body, err := c.getJSON(ctx, fmt.Sprintf("%s/teams/stats", c.baseURL))
	if err != nil {
		return nil, err
	}

	var rows []statsAPITeam
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "failed to parse team stats response", err)
	}

	teams := make([]TeamStatsData, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, TeamStatsData{
			Abbreviation:    row.Abbreviation,
			Name:            row.Name,
			DefensiveRating: row.DefensiveRating,
			Pace:            row.Pace,
		})
	}

	return teams, nil
}

func (c *StatsAPIClient) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, NewDataSourceError(sourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(sourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(sourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	return io.ReadAll(resp.Body)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
