package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresGameLogRepository implements GameLogRepository for PostgreSQL
type PostgresGameLogRepository struct {
	db *database.DB
}

// NewPostgresGameLogRepository creates a new game log repository
func NewPostgresGameLogRepository(db *database.DB) GameLogRepository {
	return &PostgresGameLogRepository{db: db}
}

// UpsertBatch inserts or refreshes a batch of game logs. The (player_id,
// game_date) pair is the natural key: re-running ingestion for a date range
// must not duplicate games.
func (r *PostgresGameLogRepository) UpsertBatch(ctx context.Context, logs []*models.GameLog) error {
	if len(logs) == 0 {
		return nil
	}

	query := `
		INSERT INTO game_logs (id, player_id, game_date, opponent, home, minutes,
		                       points, assists, rebounds, three_pointers, steals, blocks, turnovers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (player_id, game_date) DO UPDATE SET
			opponent = EXCLUDED.opponent,
			home = EXCLUDED.home,
			minutes = EXCLUDED.minutes,
			points = EXCLUDED.points,
			assists = EXCLUDED.assists,
			rebounds = EXCLUDED.rebounds,
			three_pointers = EXCLUDED.three_pointers,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers
	`

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, g := range logs {
		if _, err := tx.Exec(ctx, query,
			g.ID, g.PlayerID, g.GameDate, g.Opponent, g.Home, g.Minutes,
			g.Points, g.Assists, g.Rebounds, g.ThreePointers, g.Steals, g.Blocks, g.Turnovers,
		); err != nil {
			return fmt.Errorf("failed to upsert game log: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit game logs: %w", err)
	}

	return nil
}

// GetByPlayer retrieves a player's game logs before asOf, ordered by game
// date ascending. limit 0 means all available games.
func (r *PostgresGameLogRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, asOf time.Time, limit int) ([]*models.GameLog, error) {
	query := `
		SELECT id, player_id, game_date, opponent, home, minutes,
		       points, assists, rebounds, three_pointers, steals, blocks, turnovers, created_at
		FROM game_logs
		WHERE player_id = $1 AND game_date < $2
		ORDER BY game_date DESC
		LIMIT NULLIF($3, 0)
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerID, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.GameLog
	for rows.Next() {
		g := &models.GameLog{}
		if err := rows.Scan(
			&g.ID, &g.PlayerID, &g.GameDate, &g.Opponent, &g.Home, &g.Minutes,
			&g.Points, &g.Assists, &g.Rebounds, &g.ThreePointers, &g.Steals, &g.Blocks, &g.Turnovers, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game log: %w", err)
		}
		logs = append(logs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query fetched most recent first to honor the limit; callers expect
	// game date ascending.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}

	return logs, nil
}

// CountByPlayer counts a player's recorded games
func (r *PostgresGameLogRepository) CountByPlayer(ctx context.Context, playerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM game_logs WHERE player_id = $1`, playerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count game logs: %w", err)
	}
	return count, nil
}
