package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParlayStatus represents the lifecycle state of a recorded parlay
type ParlayStatus string

const (
	ParlayStatusPending       ParlayStatus = "pending"
	ParlayStatusWon           ParlayStatus = "won"
	ParlayStatusLost          ParlayStatus = "lost"
	ParlayStatusPartiallyWon  ParlayStatus = "partially_won"
)

// IsTerminal reports whether the status is a settled end state.
func (s ParlayStatus) IsTerminal() bool {
	return s == ParlayStatusWon || s == ParlayStatusLost || s == ParlayStatusPartiallyWon
}

// Parlay is a bundle of legs recorded with its predicted combined probability.
// Owned by the requesting identity; the status transitions out of pending only
// through settlement once real outcomes are known.
type Parlay struct {
	ID                  uuid.UUID        `db:"id" json:"id" validate:"required,uuid4"`
	IdentityKey         string           `db:"identity_key" json:"identity_key" validate:"required"`
	Legs                []LegEvaluation  `db:"legs" json:"legs" validate:"required,min=1"`
	CombinedProbability float64          `db:"combined_probability" json:"combined_probability" validate:"gt=0,lt=1"`
	FairMultiplier      float64          `db:"fair_multiplier" json:"fair_multiplier" validate:"gt=1"`
	Stake               *decimal.Decimal `db:"stake" json:"stake"`
	Payout              *decimal.Decimal `db:"payout" json:"payout"`
	Status              ParlayStatus     `db:"status" json:"status" validate:"required"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
	SettledAt           *time.Time       `db:"settled_at" json:"settled_at"`
}

// NetProfit returns the realized profit on a settled parlay, zero otherwise.
func (p *Parlay) NetProfit() decimal.Decimal {
	if !p.Status.IsTerminal() || p.Stake == nil {
		return decimal.Zero
	}
	payout := decimal.Zero
	if p.Payout != nil {
		payout = *p.Payout
	}
	return payout.Sub(*p.Stake)
}

// Identity is an already-resolved caller identity: an anonymous key derived
// from network origin, or a registered account identifier.
type Identity struct {
	Key        string `json:"key" validate:"required"`
	Registered bool   `json:"registered"`
}

// UsageRecord tracks one identity's analyses in the current rolling-day
// window. One live record per identity; mutated in place by the governor.
type UsageRecord struct {
	IdentityKey   string     `db:"identity_key" json:"identity_key" validate:"required"`
	Registered    bool       `db:"registered" json:"registered"`
	Count         int        `db:"count" json:"count" validate:"gte=0"`
	WindowStart   time.Time  `db:"window_start" json:"window_start"`
	LastAnalysis  *time.Time `db:"last_analysis" json:"last_analysis"`
	LifetimeTotal int64      `db:"lifetime_total" json:"lifetime_total"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
