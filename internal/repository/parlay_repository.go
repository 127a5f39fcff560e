package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresParlayRepository implements ParlayRepository for PostgreSQL. Legs
// are stored as a JSONB document alongside the combined prediction.
type PostgresParlayRepository struct {
	db *database.DB
}

// NewPostgresParlayRepository creates a new parlay repository
func NewPostgresParlayRepository(db *database.DB) ParlayRepository {
	return &PostgresParlayRepository{db: db}
}

// Create records a parlay prediction in state pending
func (r *PostgresParlayRepository) Create(ctx context.Context, parlay *models.Parlay) error {
	legs, err := json.Marshal(parlay.Legs)
	if err != nil {
		return fmt.Errorf("failed to marshal parlay legs: %w", err)
	}

	query := `
		INSERT INTO parlays (id, identity_key, legs, combined_probability, fair_multiplier,
		                     stake, payout, status, created_at, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		parlay.ID, parlay.IdentityKey, legs, parlay.CombinedProbability, parlay.FairMultiplier,
		parlay.Stake, parlay.Payout, parlay.Status, parlay.CreatedAt, parlay.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create parlay: %w", err)
	}

	return nil
}

// GetByID retrieves a parlay by ID
func (r *PostgresParlayRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Parlay, error) {
	query := `
		SELECT id, identity_key, legs, combined_probability, fair_multiplier,
		       stake, payout, status, created_at, settled_at
		FROM parlays WHERE id = $1
	`

	return scanParlay(r.db.GetPool().QueryRow(ctx, query, id))
}

// GetByIdentity retrieves an identity's parlays, most recent first
func (r *PostgresParlayRepository) GetByIdentity(ctx context.Context, identityKey string, limit int) ([]*models.Parlay, error) {
	query := `
		SELECT id, identity_key, legs, combined_probability, fair_multiplier,
		       stake, payout, status, created_at, settled_at
		FROM parlays
		WHERE identity_key = $1
		ORDER BY created_at DESC
		LIMIT NULLIF($2, 0)
	`

	return r.queryParlays(ctx, query, identityKey, limit)
}

// GetPending retrieves unsettled parlays, oldest first
func (r *PostgresParlayRepository) GetPending(ctx context.Context, limit int) ([]*models.Parlay, error) {
	query := `
		SELECT id, identity_key, legs, combined_probability, fair_multiplier,
		       stake, payout, status, created_at, settled_at
		FROM parlays
		WHERE status = $1
		ORDER BY created_at
		LIMIT NULLIF($2, 0)
	`

	return r.queryParlays(ctx, query, models.ParlayStatusPending, limit)
}

// Settle transitions a pending parlay into a terminal state. Settling a
// parlay that is not pending is an error: outcomes are written exactly once.
func (r *PostgresParlayRepository) Settle(ctx context.Context, id uuid.UUID, status models.ParlayStatus, payout *decimal.Decimal, settledAt time.Time) error {
	if !status.IsTerminal() {
		return fmt.Errorf("settlement status must be terminal, got %q", status)
	}

	query := `
		UPDATE parlays SET status = $2, payout = $3, settled_at = $4
		WHERE id = $1 AND status = $5
	`

	tag, err := r.db.GetPool().Exec(ctx, query, id, status, payout, settledAt, models.ParlayStatusPending)
	if err != nil {
		return fmt.Errorf("failed to settle parlay: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.Status.IsTerminal() {
			return models.ErrAlreadySettled
		}
		return models.ErrNotFound
	}

	return nil
}

func (r *PostgresParlayRepository) queryParlays(ctx context.Context, query string, args ...interface{}) ([]*models.Parlay, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parlays: %w", err)
	}
	defer rows.Close()

	var parlays []*models.Parlay
	for rows.Next() {
		p, err := scanParlay(rows)
		if err != nil {
			return nil, err
		}
		parlays = append(parlays, p)
	}

	return parlays, rows.Err()
}

func scanParlay(row pgx.Row) (*models.Parlay, error) {
	p := &models.Parlay{}
	var legs []byte
	err := row.Scan(
		&p.ID, &p.IdentityKey, &legs, &p.CombinedProbability, &p.FairMultiplier,
		&p.Stake, &p.Payout, &p.Status, &p.CreatedAt, &p.SettledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan parlay: %w", err)
	}

	if err := json.Unmarshal(legs, &p.Legs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parlay legs: %w", err)
	}

	return p, nil
}
