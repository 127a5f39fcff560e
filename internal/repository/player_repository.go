package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresPlayerRepository implements PlayerRepository for PostgreSQL
type PostgresPlayerRepository struct {
	db *database.DB
}

// NewPostgresPlayerRepository creates a new player repository
func NewPostgresPlayerRepository(db *database.DB) PlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// Create inserts a new player
func (r *PostgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, name, team, position, external_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`

	_, err := r.db.GetPool().Exec(ctx, query, player.ID, player.Name, player.Team, player.Position, player.ExternalRef)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// GetByID retrieves a player by ID
func (r *PostgresPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `
		SELECT id, name, team, position, external_ref, created_at, updated_at
		FROM players WHERE id = $1
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&player.ID, &player.Name, &player.Team, &player.Position, &player.ExternalRef, &player.CreatedAt, &player.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// GetByName retrieves a player by exact name, case-insensitively
func (r *PostgresPlayerRepository) GetByName(ctx context.Context, name string) (*models.Player, error) {
	query := `
		SELECT id, name, team, position, external_ref, created_at, updated_at
		FROM players WHERE LOWER(name) = LOWER($1)
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(
		&player.ID, &player.Name, &player.Team, &player.Position, &player.ExternalRef, &player.CreatedAt, &player.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}

	return player, nil
}

// List retrieves players ordered by name, at most limit rows (0 means all)
func (r *PostgresPlayerRepository) List(ctx context.Context, limit int) ([]*models.Player, error) {
	query := `
		SELECT id, name, team, position, external_ref, created_at, updated_at
		FROM players ORDER BY name LIMIT NULLIF($1, 0)
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		if err := rows.Scan(&player.ID, &player.Name, &player.Team, &player.Position, &player.ExternalRef, &player.CreatedAt, &player.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// Update updates an existing player
func (r *PostgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET name = $2, team = $3, position = $4, external_ref = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query, player.ID, player.Name, player.Team, player.Position, player.ExternalRef)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
