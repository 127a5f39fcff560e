// Package main provides a one-shot game-log and team-stats sync runner,
// suitable for cron or manual backfills.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/service"
)

func main() {
	var (
		season    = flag.Int("season", 0, "Season to sync (defaults to configured season)")
		teamsOnly = flag.Bool("teams-only", false, "Sync only team statistics")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("COURTSIDE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	if *season == 0 {
		*season = cfg.DataSource.Season
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repos := repository.NewRepositories(db)

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:      time.Duration(cfg.DataSource.TimeoutSeconds) * time.Second,
		MaxRetries:   cfg.DataSource.RetryMax,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 15 * time.Second,
		RateLimit:    float64(cfg.DataSource.RequestsPerMinute) / 60.0,
	}, appLog)
	defer httpClient.Close()

	statsAPI := datasource.NewStatsAPIClient(httpClient, cfg.DataSource.BaseURL, cfg.DataSource.APIKey, appLog)
	ingestionSvc := service.NewIngestionService(statsAPI, repos.Players, repos.GameLogs, repos.TeamStats, appLog)

	appLog.WithFields(logrus.Fields{
		"season":     *season,
		"teams_only": *teamsOnly,
		"source":     statsAPI.Name(),
	}).Info("Starting data sync")

	if err := ingestionSvc.SyncTeamStats(ctx); err != nil {
		appLog.WithError(err).Fatal("Team stats sync failed")
	}

	if !*teamsOnly {
		if err := ingestionSvc.SyncAllPlayers(ctx, *season); err != nil {
			appLog.WithError(err).Fatal("Game log sync finished with errors")
		}
	}

	appLog.Info("Data sync completed")
}
