package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// IdentityCounter reports how many identities hold a live usage record.
type IdentityCounter interface {
	Count(ctx context.Context) (int, error)
}

// SettlementService resolves recorded parlays against real outcomes and
// aggregates historical performance.
type SettlementService struct {
	parlays    repository.ParlayRepository
	identities IdentityCounter
	logger     *logrus.Logger
}

// PerformanceSummary aggregates an identity's settled parlays. Predicted
// probability is averaged over all settled parlays so calibration drift is
// visible at a glance.
type PerformanceSummary struct {
	IdentityKey        string          `json:"identity_key"`
	TotalParlays       int             `json:"total_parlays"`
	Pending            int             `json:"pending"`
	Wins               int             `json:"wins"`
	Losses             int             `json:"losses"`
	PartialWins        int             `json:"partial_wins"`
	WinRate            float64         `json:"win_rate"`
	AvgPredictedProb   float64         `json:"avg_predicted_probability"`
	TotalStaked        decimal.Decimal `json:"total_staked"`
	TotalReturned      decimal.Decimal `json:"total_returned"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	ReturnOnInvestment float64         `json:"return_on_investment"`
}

// NewSettlementService creates the settlement service. identities may be nil
// when no usage store is attached.
func NewSettlementService(parlays repository.ParlayRepository, identities IdentityCounter, logger *logrus.Logger) *SettlementService {
	return &SettlementService{parlays: parlays, identities: identities, logger: logger}
}

// Settle transitions a pending parlay to a terminal outcome. A parlay can be
// settled exactly once; later attempts return ErrAlreadySettled.
func (s *SettlementService) Settle(ctx context.Context, id uuid.UUID, status models.ParlayStatus, payout *decimal.Decimal, settledAt time.Time) error {
	if !status.IsTerminal() {
		return fmt.Errorf("cannot settle parlay %s to non-terminal status %q", id, status)
	}

	if err := s.parlays.Settle(ctx, id, status, payout, settledAt); err != nil {
		return err
	}

	metrics.RecordParlaySettled(string(status))

	s.logger.WithFields(logrus.Fields{
		"parlay_id": id,
		"status":    status,
	}).Info("Parlay settled")

	return nil
}

// PendingCount refreshes the pending-parlay and tracked-identity gauges and
// returns the count of parlays awaiting settlement, up to limit.
func (s *SettlementService) PendingCount(ctx context.Context, limit int) (int, error) {
	pending, err := s.parlays.GetPending(ctx, limit)
	if err != nil {
		return 0, err
	}
	metrics.PendingParlays.Set(float64(len(pending)))

	if s.identities != nil {
		identities, err := s.identities.Count(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to count tracked identities")
		} else {
			metrics.TrackedIdentities.Set(float64(identities))
		}
	}

	return len(pending), nil
}

// Summarize computes the performance summary over an identity's recorded
// parlays, most recent first up to limit (0 means all).
func (s *SettlementService) Summarize(ctx context.Context, identityKey string, limit int) (*PerformanceSummary, error) {
	parlays, err := s.parlays.GetByIdentity(ctx, identityKey, limit)
	if err != nil {
		return nil, err
	}

	summary := &PerformanceSummary{
		IdentityKey:   identityKey,
		TotalStaked:   decimal.Zero,
		TotalReturned: decimal.Zero,
		NetProfit:     decimal.Zero,
	}

	predictedSum := 0.0
	settled := 0
	for _, p := range parlays {
		summary.TotalParlays++
		switch p.Status {
		case models.ParlayStatusPending:
			summary.Pending++
			continue
		case models.ParlayStatusWon:
			summary.Wins++
		case models.ParlayStatusLost:
			summary.Losses++
		case models.ParlayStatusPartiallyWon:
			summary.PartialWins++
		}

		settled++
		predictedSum += p.CombinedProbability
		if p.Stake != nil {
			summary.TotalStaked = summary.TotalStaked.Add(*p.Stake)
		}
		if p.Payout != nil {
			summary.TotalReturned = summary.TotalReturned.Add(*p.Payout)
		}
	}

	if settled > 0 {
		summary.WinRate = float64(summary.Wins) / float64(settled)
		summary.AvgPredictedProb = predictedSum / float64(settled)
	}
	summary.NetProfit = summary.TotalReturned.Sub(summary.TotalStaked)
	if summary.TotalStaked.IsPositive() {
		roi, _ := summary.NetProfit.Div(summary.TotalStaked).Float64()
		summary.ReturnOnInvestment = roi
	}

	return summary, nil
}
