package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents an NBA player tracked by the system. ExternalRef is the
// stat provider's identifier for the player, used when syncing game logs.
type Player struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Name        string    `db:"name" json:"name" validate:"required"`
	Team        string    `db:"team" json:"team"`
	Position    string    `db:"position" json:"position"`
	ExternalRef string    `db:"external_ref" json:"external_ref"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GameLog is one player's box-score line for one historical game. Immutable
// once recorded; ordered by game date when queried.
type GameLog struct {
	ID            uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	PlayerID      uuid.UUID `db:"player_id" json:"player_id" validate:"required,uuid4"`
	GameDate      time.Time `db:"game_date" json:"game_date" validate:"required"`
	Opponent      string    `db:"opponent" json:"opponent"`
	Home          bool      `db:"home" json:"home"`
	Minutes       float64   `db:"minutes" json:"minutes"`
	Points        float64   `db:"points" json:"points"`
	Assists       float64   `db:"assists" json:"assists"`
	Rebounds      float64   `db:"rebounds" json:"rebounds"`
	ThreePointers float64   `db:"three_pointers" json:"three_pointers"`
	Steals        float64   `db:"steals" json:"steals"`
	Blocks        float64   `db:"blocks" json:"blocks"`
	Turnovers     float64   `db:"turnovers" json:"turnovers"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// StatValue returns the value of the given stat for this game, including the
// combo stats bookmakers offer (points+assists, points+rebounds+assists).
func (g *GameLog) StatValue(stat StatType) float64 {
	switch stat {
	case StatPoints:
		return g.Points
	case StatAssists:
		return g.Assists
	case StatRebounds:
		return g.Rebounds
	case StatThreePointers:
		return g.ThreePointers
	case StatSteals:
		return g.Steals
	case StatBlocks:
		return g.Blocks
	case StatPointsAssists:
		return g.Points + g.Assists
	case StatPointsReboundsAssists:
		return g.Points + g.Rebounds + g.Assists
	default:
		return 0
	}
}

// TeamStats carries the opponent-level statistics the matchup adjustment
// consumes. Defensive rating: points allowed per 100 possessions (lower is
// better). Pace: possessions per game.
type TeamStats struct {
	Abbreviation    string    `db:"abbreviation" json:"abbreviation" validate:"required"`
	Name            string    `db:"name" json:"name"`
	DefensiveRating float64   `db:"defensive_rating" json:"defensive_rating" validate:"gt=0"`
	Pace            float64   `db:"pace" json:"pace" validate:"gt=0"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
