// Package repository provides data access for players, game logs, team
// statistics, parlays, and usage records.
package repository

import (
	"github.com/yourusername/courtside/internal/database"
)

// Repositories aggregates all repository implementations for wiring
type Repositories struct {
	Players      PlayerRepository
	GameLogs     GameLogRepository
	TeamStats    TeamStatsRepository
	Parlays      ParlayRepository
	UsageRecords UsageRecordRepository
}

// NewRepositories creates all PostgreSQL repositories over one pool
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Players:      NewPostgresPlayerRepository(db),
		GameLogs:     NewPostgresGameLogRepository(db),
		TeamStats:    NewPostgresTeamStatsRepository(db),
		Parlays:      NewPostgresParlayRepository(db),
		UsageRecords: NewPostgresUsageRecordRepository(db),
	}
}
