// Package main provides the entry point for the analysis engine service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/api"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/governor"
	"github.com/yourusername/courtside/internal/health"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/matchup"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/parlay"
	"github.com/yourusername/courtside/internal/probability"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/scheduler"
	"github.com/yourusername/courtside/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
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

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Courtside analysis engine starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize metrics registry
	metrics.InitRegistry()

	// Core engine components
	gov := governor.NewGovernor(governor.Config{
		AnonymousQuota:  cfg.Governor.AnonymousQuota,
		RegisteredQuota: cfg.Governor.RegisteredQuota,
		Cooldown:        cfg.Governor.CooldownDuration(),
		Window:          cfg.Governor.WindowDuration(),
	}, repos.UsageRecords, appLog)

	model := probability.NewModel(probability.Config{
		TrendWeight:        cfg.Model.TrendWeight,
		StdFloor:           cfg.Model.StdFloor,
		MatchupCapFraction: cfg.Model.MatchupCapFraction,
		ProbabilityFloor:   cfg.Model.ProbabilityFloor,
		ProbabilityCeiling: cfg.Model.ProbabilityCeiling,
	})

	combiner := parlay.NewCombiner(parlay.Config{MaxLegs: cfg.Parlay.MaxLegs})

	teamStatsCache := datasource.NewCachedTeamStats(
		repos.TeamStats,
		time.Duration(cfg.DataSource.TeamStatsTTLMinutes)*time.Minute,
	)
	matchupAnalyzer := matchup.NewAnalyzer(teamStatsCache)

	analyzerSvc := service.NewAnalyzerService(
		gov,
		model,
		combiner,
		matchupAnalyzer,
		repos.GameLogs,
		repos.Parlays,
		service.AnalyzerConfig{
			RecentWindow: cfg.Model.RecentWindow,
			SeasonGames:  cfg.Model.SeasonGames,
		},
		appLog,
	)
	settlementSvc := service.NewSettlementService(repos.Parlays, repos.UsageRecords, appLog)

	// Stat provider client for the background sync jobs
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

	// Background jobs
	sched := scheduler.NewScheduler(ingestionSvc, settlementSvc, appLog)
	if err := sched.ScheduleGameLogSync(cfg.Scheduler.GameLogSync, cfg.DataSource.Season); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule game log sync")
	}
	if err := sched.ScheduleSettlementSweep(cfg.Scheduler.SettlementSweep); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule settlement sweep")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Health and metrics server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
		Logger:      appLog,
		DB:          db,
		Jobs:        sched,
		Teams:       repos.TeamStats,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// Public analysis API
	apiServer := api.NewServer(api.Config{
		Port:       fmt.Sprintf("%d", cfg.API.Port),
		Analyzer:   analyzerSvc,
		Settlement: settlementSvc,
		Parlays:    repos.Parlays,
		Logger:     appLog,
	})
	if err := apiServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start API server")
	}

	appLog.WithFields(logrus.Fields{
		"anonymous_quota":  cfg.Governor.AnonymousQuota,
		"registered_quota": cfg.Governor.RegisteredQuota,
		"cooldown":         cfg.Governor.CooldownDuration().String(),
		"max_legs":         cfg.Parlay.MaxLegs,
		"api_port":         cfg.API.Port,
	}).Info("Analysis engine running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("Analysis engine shut down successfully")
}
