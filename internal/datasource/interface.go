// Package datasource fetches historical game logs and team statistics from
// external stat providers. The engine consumes its output as already-validated
// observation sequences; nothing downstream knows where the data came from.
package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/courtside/internal/models"
)

// GameLogSource defines the interface for fetching per-game stat lines
type GameLogSource interface {
	// FetchGameLogs retrieves a player's game lines for a season, ordered
	// by game date ascending. Inactive/DNP games are already filtered out.
	FetchGameLogs(ctx context.Context, playerRef string, season int) ([]GameLogData, error)

	// FetchTeamStats retrieves current defensive rating and pace for all teams
	FetchTeamStats(ctx context.Context) ([]TeamStatsData, error)

	// Name returns the name of the data source
	Name() string
}

// GameLogData represents a normalized game line from any provider
type GameLogData struct {
	GameDate      time.Time `json:"game_date"`
	Opponent      string    `json:"opponent"`
	Home          bool      `json:"home"`
	Minutes       float64   `json:"minutes"`
	Points        float64   `json:"points"`
	Assists       float64   `json:"assists"`
	Rebounds      float64   `json:"rebounds"`
	ThreePointers float64   `json:"three_pointers"`
	Steals        float64   `json:"steals"`
	Blocks        float64   `json:"blocks"`
	Turnovers     float64   `json:"turnovers"`
}

// ToModel converts the normalized line into a persistable game log
func (g GameLogData) ToModel(playerID uuid.UUID) *models.GameLog {
	return &models.GameLog{
		ID:            uuid.New(),
		PlayerID:      playerID,
		GameDate:      g.GameDate,
		Opponent:      g.Opponent,
		Home:          g.Home,
		Minutes:       g.Minutes,
		Points:        g.Points,
		Assists:       g.Assists,
		Rebounds:      g.Rebounds,
		ThreePointers: g.ThreePointers,
		Steals:        g.Steals,
		Blocks:        g.Blocks,
		Turnovers:     g.Turnovers,
	}
}

// TeamStatsData represents normalized team-level statistics from any provider
type TeamStatsData struct {
	Abbreviation    string  `json:"abbreviation"`
	Name            string  `json:"name"`
	DefensiveRating float64 `json:"defensive_rating"`
	Pace            float64 `json:"pace"`
}

// ToModel converts normalized team stats into the persistable form
func (t TeamStatsData) ToModel() *models.TeamStats {
	return &models.TeamStats{
		Abbreviation:    t.Abbreviation,
		Name:            t.Name,
		DefensiveRating: t.DefensiveRating,
		Pace:            t.Pace,
	}
}

// Error codes for data source failures
const (
	ErrCodeNetworkError         = "NETWORK_ERROR"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidData          = "INVALID_DATA"
	ErrCodeServerError          = "SERVER_ERROR"
)

// DataSourceError wraps a provider failure with its source and code
type DataSourceError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Source, e.Code, e.Message)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// NewDataSourceError creates a data source error
func NewDataSourceError(source, code, message string, err error) *DataSourceError {
	return &DataSourceError{Source: source, Code: code, Message: message, Err: err}
}
