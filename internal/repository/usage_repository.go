package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

// PostgresUsageRecordRepository implements UsageRecordRepository for
// PostgreSQL. Update takes a row-level lock on the identity's record, so two
// simultaneous authorizations for the same identity serialize on the row
// while different identities proceed in parallel. Satisfies governor.Store.
type PostgresUsageRecordRepository struct {
	db *database.DB
}

// NewPostgresUsageRecordRepository creates a new usage record repository
func NewPostgresUsageRecordRepository(db *database.DB) UsageRecordRepository {
	return &PostgresUsageRecordRepository{db: db}
}

// Update runs fn against the identity's record inside a transaction holding
// FOR UPDATE on the row. An error from fn rolls the transaction back, so a
// rejected authorization writes nothing.
func (r *PostgresUsageRecordRepository) Update(ctx context.Context, key string, fn func(rec *models.UsageRecord) error) (*models.UsageRecord, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Ensure the row exists before locking it; first request for an
	// identity creates its record.
	if _, err := tx.Exec(ctx, `
		INSERT INTO usage_records (identity_key, registered, count, window_start, last_analysis, lifetime_total, updated_at)
		VALUES ($1, false, 0, NULL, NULL, 0, NOW())
		ON CONFLICT (identity_key) DO NOTHING
	`, key); err != nil {
		return nil, fmt.Errorf("failed to ensure usage record: %w", err)
	}

	rec := &models.UsageRecord{}
	var windowStart *time.Time
	err = tx.QueryRow(ctx, `
		SELECT identity_key, registered, count, window_start, last_analysis, lifetime_total, updated_at
		FROM usage_records WHERE identity_key = $1
		FOR UPDATE
	`, key).Scan(&rec.IdentityKey, &rec.Registered, &rec.Count, &windowStart, &rec.LastAnalysis, &rec.LifetimeTotal, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to lock usage record: %w", err)
	}
	if windowStart != nil {
		rec.WindowStart = *windowStart
	}

	if err := fn(rec); err != nil {
		return nil, err
	}

	var ws *time.Time
	if !rec.WindowStart.IsZero() {
		ws = &rec.WindowStart
	}
	if _, err := tx.Exec(ctx, `
		UPDATE usage_records
		SET registered = $2, count = $3, window_start = $4, last_analysis = $5, lifetime_total = $6, updated_at = NOW()
		WHERE identity_key = $1
	`, key, rec.Registered, rec.Count, ws, rec.LastAnalysis, rec.LifetimeTotal); err != nil {
		return nil, fmt.Errorf("failed to update usage record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit usage record: %w", err)
	}

	return rec, nil
}

// Get retrieves an identity's usage record without locking
func (r *PostgresUsageRecordRepository) Get(ctx context.Context, key string) (*models.UsageRecord, error) {
	rec := &models.UsageRecord{}
	var windowStart *time.Time
	err := r.db.GetPool().QueryRow(ctx, `
		SELECT identity_key, registered, count, window_start, last_analysis, lifetime_total, updated_at
		FROM usage_records WHERE identity_key = $1
	`, key).Scan(&rec.IdentityKey, &rec.Registered, &rec.Count, &windowStart, &rec.LastAnalysis, &rec.LifetimeTotal, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}
	if windowStart != nil {
		rec.WindowStart = *windowStart
	}

	return rec, nil
}

// Count reports the number of identities with a usage record
func (r *PostgresUsageRecordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM usage_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage records: %w", err)
	}
	return count, nil
}
