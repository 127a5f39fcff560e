package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db *database.DB
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db *database.DB) TeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

// Upsert inserts or refreshes a team's current statistics
func (r *PostgresTeamStatsRepository) Upsert(ctx context.Context, stats *models.TeamStats) error {
	query := `
		INSERT INTO team_stats (abbreviation, name, defensive_rating, pace, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (abbreviation) DO UPDATE SET
			name = EXCLUDED.name,
			defensive_rating = EXCLUDED.defensive_rating,
			pace = EXCLUDED.pace,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query, stats.Abbreviation, stats.Name, stats.DefensiveRating, stats.Pace)
	if err != nil {
		return fmt.Errorf("failed to upsert team stats: %w", err)
	}

	return nil
}

// GetByAbbreviation retrieves one team's statistics
func (r *PostgresTeamStatsRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.TeamStats, error) {
	query := `
		SELECT abbreviation, name, defensive_rating, pace, updated_at
		FROM team_stats WHERE abbreviation = $1
	`

	ts := &models.TeamStats{}
	err := r.db.GetPool().QueryRow(ctx, query, abbreviation).Scan(
		&ts.Abbreviation, &ts.Name, &ts.DefensiveRating, &ts.Pace, &ts.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team stats: %w", err)
	}

	return ts, nil
}

// List retrieves all teams' statistics
func (r *PostgresTeamStatsRepository) List(ctx context.Context) ([]*models.TeamStats, error) {
	query := `
		SELECT abbreviation, name, defensive_rating, pace, updated_at
		FROM team_stats ORDER BY abbreviation
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list team stats: %w", err)
	}
	defer rows.Close()

	var all []*models.TeamStats
	for rows.Next() {
		ts := &models.TeamStats{}
		if err := rows.Scan(&ts.Abbreviation, &ts.Name, &ts.DefensiveRating, &ts.Pace, &ts.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		all = append(all, ts)
	}

	return all, rows.Err()
}
