package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/courtside/internal/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetByName(ctx context.Context, name string) (*models.Player, error)
	List(ctx context.Context, limit int) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
}

// GameLogRepository defines the interface for per-game stat line access.
// GetByPlayer returns logs ordered by game date ascending, restricted to
// games strictly before asOf, at most limit rows (0 means no limit).
type GameLogRepository interface {
	UpsertBatch(ctx context.Context, logs []*models.GameLog) error
	GetByPlayer(ctx context.Context, playerID uuid.UUID, asOf time.Time, limit int) ([]*models.GameLog, error)
	CountByPlayer(ctx context.Context, playerID uuid.UUID) (int, error)
}

// TeamStatsRepository defines the interface for opponent team statistics
type TeamStatsRepository interface {
	Upsert(ctx context.Context, stats *models.TeamStats) error
	GetByAbbreviation(ctx context.Context, abbreviation string) (*models.TeamStats, error)
	List(ctx context.Context) ([]*models.TeamStats, error)
}

// ParlayRepository defines the interface for parlay persistence. Settle
// transitions a pending parlay into a terminal state; it is the only write
// path that touches the status after creation.
type ParlayRepository interface {
	Create(ctx context.Context, parlay *models.Parlay) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Parlay, error)
	GetByIdentity(ctx context.Context, identityKey string, limit int) ([]*models.Parlay, error)
	GetPending(ctx context.Context, limit int) ([]*models.Parlay, error)
	Settle(ctx context.Context, id uuid.UUID, status models.ParlayStatus, payout *decimal.Decimal, settledAt time.Time) error
}

// UsageRecordRepository persists governor state. Update must be atomic per
// identity (row-level lock), and must discard mutations when fn errors; it
// satisfies governor.Store. Count reports the number of tracked identities.
type UsageRecordRepository interface {
	Update(ctx context.Context, key string, fn func(rec *models.UsageRecord) error) (*models.UsageRecord, error)
	Get(ctx context.Context, key string) (*models.UsageRecord, error)
	Count(ctx context.Context) (int, error)
}
