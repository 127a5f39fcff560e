// Package service orchestrates the analysis pipeline: usage governance, leg
// evaluation, parlay combination, and result recording.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/governor"
	"github.com/yourusername/courtside/internal/matchup"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/parlay"
	"github.com/yourusername/courtside/internal/probability"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/stats"
)

// LegRequest describes one proposition to evaluate. Opponent is optional;
// when present the matchup adjustment is applied, with Home giving the venue
// of the upcoming game.
type LegRequest struct {
	PlayerID  uuid.UUID        `json:"player_id" validate:"required"`
	StatType  models.StatType  `json:"stat_type" validate:"required"`
	Line      float64          `json:"line" validate:"required"`
	Direction models.Direction `json:"direction" validate:"required"`
	Opponent  string           `json:"opponent"`
	Home      bool             `json:"home"`
}

// ParlayAnalysis is the full result returned to the caller after a
// successful authorized analysis.
type ParlayAnalysis struct {
	Parlay        *models.Parlay         `json:"parlay"`
	Result        *parlay.Result         `json:"result"`
	Authorization *governor.Authorization `json:"authorization"`
}

// AnalyzerConfig holds analysis-level tuning
type AnalyzerConfig struct {
	RecentWindow int // games in the short-form trend window
	SeasonGames  int // maximum games fetched per observation set
}

// AnalyzerService runs the full pipeline. The governor gates every analysis;
// the modeling stages are pure functions of the fetched observations.
type AnalyzerService struct {
	gov      *governor.Governor
	model    *probability.Model
	combiner *parlay.Combiner
	matchup  *matchup.Analyzer
	gameLogs repository.GameLogRepository
	parlays  repository.ParlayRepository
	cfg      AnalyzerConfig
	logger   *logrus.Logger
}

// NewAnalyzerService creates the analyzer service
func NewAnalyzerService(
	gov *governor.Governor,
	model *probability.Model,
	combiner *parlay.Combiner,
	matchupAnalyzer *matchup.Analyzer,
	gameLogs repository.GameLogRepository,
	parlays repository.ParlayRepository,
	cfg AnalyzerConfig,
	logger *logrus.Logger,
) *AnalyzerService {
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 10
	}
	if cfg.SeasonGames <= 0 {
		cfg.SeasonGames = 82
	}
	return &AnalyzerService{
		gov:      gov,
		model:    model,
		combiner: combiner,
		matchup:  matchupAnalyzer,
		gameLogs: gameLogs,
		parlays:  parlays,
		cfg:      cfg,
		logger:   logger,
	}
}

// EvaluateLeg evaluates a single proposition against the player's history as
// of the given date. Does not consume quota; AnalyzeParlay is the governed
// entry point.
func (s *AnalyzerService) EvaluateLeg(ctx context.Context, req LegRequest, asOf time.Time) (*models.LegEvaluation, error) {
	prop := models.Proposition{
		PlayerID:  req.PlayerID,
		StatType:  req.StatType,
		Line:      req.Line,
		Direction: req.Direction,
	}
	if err := prop.Validate(); err != nil {
		return nil, err
	}

	logs, err := s.gameLogs.GetByPlayer(ctx, req.PlayerID, asOf, s.cfg.SeasonGames)
	if err != nil {
		return nil, fmt.Errorf("failed to load game logs: %w", err)
	}
	if len(logs) == 0 {
		return nil, models.ErrInsufficientData
	}

	summary, err := stats.Summarize(stats.Observations(logs, req.StatType), s.cfg.RecentWindow)
	if err != nil {
		return nil, err
	}

	shift := 0.0
	if req.Opponent != "" {
		shift, err = s.matchup.MeanShift(ctx, req.Opponent, req.Home, summary.Mean)
		if err != nil {
			// Missing opponent data degrades to an unadjusted evaluation
			// rather than failing the leg.
			s.logger.WithError(err).WithField("opponent", req.Opponent).Warn("Matchup adjustment unavailable")
			shift = 0
		}
	}

	eval, err := s.model.EvaluateLeg(prop, summary, shift)
	if err != nil {
		return nil, err
	}

	metrics.RecordLegEvaluation()
	return eval, nil
}

// AnalyzeParlay authorizes the identity, evaluates every leg, combines them,
// and records the prediction. The quota slot is consumed at authorization
// and is not returned if a later stage fails or the caller abandons the
// request; that is a deliberate anti-abuse choice.
func (s *AnalyzerService) AnalyzeParlay(ctx context.Context, identity models.Identity, legs []LegRequest, now time.Time) (*ParlayAnalysis, error) {
	if len(legs) == 0 {
		return nil, models.ErrEmptyParlay
	}

	auth, err := s.gov.Authorize(ctx, identity, now)
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}

	started := time.Now()

	evaluations := make([]models.LegEvaluation, 0, len(legs))
	for _, req := range legs {
		eval, err := s.EvaluateLeg(ctx, req, now)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, *eval)
	}

	result, err := s.combiner.Combine(evaluations)
	if err != nil {
		return nil, err
	}

	p := &models.Parlay{
		ID:                  uuid.New(),
		IdentityKey:         identity.Key,
		Legs:                result.Legs,
		CombinedProbability: result.CombinedProbability,
		FairMultiplier:      result.FairMultiplier,
		Status:              models.ParlayStatusPending,
		CreatedAt:           now,
	}
	if err := s.parlays.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record parlay: %w", err)
	}

	metrics.RecordAnalysis(time.Since(started).Seconds())
	metrics.RecordParlayRecorded()

	s.logger.WithFields(logrus.Fields{
		"identity":             identity.Key,
		"parlay_id":            p.ID,
		"legs":                 len(result.Legs),
		"combined_probability": result.CombinedProbability,
		"fair_multiplier":      result.FairMultiplier,
		"remaining":            auth.Remaining,
	}).Info("Parlay analyzed")

	return &ParlayAnalysis{Parlay: p, Result: result, Authorization: auth}, nil
}

// Usage reports the identity's quota standing without consuming a slot
func (s *AnalyzerService) Usage(ctx context.Context, identity models.Identity, now time.Time) (*governor.UsageStatus, error) {
	return s.gov.Usage(ctx, identity, now)
}

func (s *AnalyzerService) recordRejection(err error) {
	var quotaErr *models.QuotaExceededError
	var cooldownErr *models.CooldownActiveError
	switch {
	case errors.As(err, &quotaErr):
		metrics.RecordQuotaRejection()
	case errors.As(err, &cooldownErr):
		metrics.RecordCooldownRejection()
	}
}
