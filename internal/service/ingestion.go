package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// IngestionService pulls game logs and team statistics from the configured
// provider and persists them. The provider client is already rate limited, so
// syncs run sequentially per player.
type IngestionService struct {
	source   datasource.GameLogSource
	players  repository.PlayerRepository
	gameLogs repository.GameLogRepository
	teams    repository.TeamStatsRepository
	logger   *logrus.Logger
}

// NewIngestionService creates the ingestion service
func NewIngestionService(
	source datasource.GameLogSource,
	players repository.PlayerRepository,
	gameLogs repository.GameLogRepository,
	teams repository.TeamStatsRepository,
	logger *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		source:   source,
		players:  players,
		gameLogs: gameLogs,
		teams:    teams,
		logger:   logger,
	}
}

// SyncPlayerGameLogs fetches a player's season game log and upserts it.
// Returns the number of game lines stored.
func (s *IngestionService) SyncPlayerGameLogs(ctx context.Context, player *models.Player, season int) (int, error) {
	rows, err := s.source.FetchGameLogs(ctx, player.ExternalRef, season)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch game logs for %s: %w", player.Name, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	logs := make([]*models.GameLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.ToModel(player.ID))
	}
	if err := s.gameLogs.UpsertBatch(ctx, logs); err != nil {
		return 0, fmt.Errorf("failed to store game logs for %s: %w", player.Name, err)
	}

	return len(logs), nil
}

// SyncAllPlayers refreshes game logs for every tracked player. Individual
// player failures are logged and skipped so one bad fetch does not abort the
// whole run; the first error is returned after the sweep completes.
func (s *IngestionService) SyncAllPlayers(ctx context.Context, season int) error {
	players, err := s.players.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}

	started := time.Now()
	var firstErr error
	synced := 0
	for _, player := range players {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := s.SyncPlayerGameLogs(ctx, player, season)
		if err != nil {
			s.logger.WithError(err).WithField("player", player.Name).Warn("Game log sync failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		synced += n
	}

	metrics.GameLogSyncsTotal.Inc()

	s.logger.WithFields(logrus.Fields{
		"source":   s.source.Name(),
		"season":   season,
		"players":  len(players),
		"games":    synced,
		"duration": time.Since(started).String(),
	}).Info("Game log sync completed")

	return firstErr
}

// SyncTeamStats refreshes defensive rating and pace for all teams
func (s *IngestionService) SyncTeamStats(ctx context.Context) error {
	rows, err := s.source.FetchTeamStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch team stats: %w", err)
	}

	now := time.Now().UTC()
	for _, row := range rows {
		ts := row.ToModel()
		ts.UpdatedAt = now
		if err := s.teams.Upsert(ctx, ts); err != nil {
			return fmt.Errorf("failed to store team stats for %s: %w", row.Abbreviation, err)
		}
	}

	s.logger.WithField("teams", len(rows)).Info("Team stats sync completed")
	return nil
}
