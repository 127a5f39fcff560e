// Package scheduler manages the recurring background jobs: game-log and
// team-stats synchronization, and the settlement sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/courtside/internal/service"
)

// Scheduler manages scheduled background jobs. Jobs are registered before
// Start and run on the UTC clock.
type Scheduler struct {
	cron          *cron.Cron
	ingestionSvc  *service.IngestionService
	settlementSvc *service.SettlementService
	logger        *logrus.Logger
	mu            sync.RWMutex
	isRunning     bool
	jobIDs        []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(ingestionSvc *service.IngestionService, settlementSvc *service.SettlementService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc:  ingestionSvc,
		settlementSvc: settlementSvc,
		logger:        logger,
		jobIDs:        make([]cron.EntryID, 0),
	}
}

// ScheduleGameLogSync schedules the nightly game-log and team-stats refresh.
// Each run also refreshes team defensive ratings so the matchup adjustment
// works from data no older than one sync interval.
func (s *Scheduler) ScheduleGameLogSync(cronExpression string, season int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		s.logger.WithField("season", season).Info("Starting scheduled game log sync")

		if err := s.ingestionSvc.SyncTeamStats(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled team stats sync failed")
		}
		if err := s.ingestionSvc.SyncAllPlayers(ctx, season); err != nil {
			s.logger.WithError(err).Error("Scheduled game log sync finished with errors")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add game log sync job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled game log sync job")

	return nil
}

// ScheduleSettlementSweep schedules the periodic pending-parlay count refresh.
// Settlement itself requires real outcomes supplied by an operator; the sweep
// keeps the pending gauge honest and surfaces a growing backlog in logs.
func (s *Scheduler) ScheduleSettlementSweep(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		pending, err := s.settlementSvc.PendingCount(ctx, 0)
		if err != nil {
			s.logger.WithError(err).Error("Settlement sweep failed")
			return
		}
		s.logger.WithField("pending", pending).Info("Settlement sweep completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add settlement sweep job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled settlement sweep job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
