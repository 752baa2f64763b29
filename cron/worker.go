package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medshift/config"
	"medshift/services/lifecycle"
	"medshift/services/matching"
	"medshift/services/tasks"
	"medshift/utils"
)

// Worker runs the asynq consumer that reacts to entity writes: finding
// matches for requirements that entered OPEN, sweeping orphaned pending
// matches after deletes, and expiring overdue proposals on a schedule.
type Worker struct {
	Finder    matching.FinderService
	Cleaner   matching.CleanupService
	Lifecycle lifecycle.LifecycleService

	server    *asynq.Server
	scheduler *asynq.Scheduler
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Start launches the worker and the expiry scheduler in the background. The
// worker retries startup a few times before giving up; Redis may still be
// coming up alongside the app.
func (w *Worker) Start() {
	w.server = asynq.NewServer(redisOpts(), asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeMatchScan, w.handleMatchScan)
	mux.HandleFunc(tasks.TypeCleanupRequirement, w.handleCleanupRequirement)
	mux.HandleFunc(tasks.TypeCleanupSlot, w.handleCleanupSlot)
	mux.HandleFunc(tasks.TypeProposalExpiry, w.handleProposalExpiry)

	go func() {
		logger := utils.GetLogger()
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			logger.Info("worker: starting asynq server", zap.Int("attempt", attempt))
			if err := w.server.Run(mux); err == nil {
				return
			} else if attempt == maxAttempts {
				logger.Fatal("worker: failed to start after retries", zap.Error(err))
			} else {
				logger.Error("worker: start failed, retrying", zap.Error(err))
				time.Sleep(time.Duration(attempt*2) * time.Second)
			}
		}
	}()

	w.startExpiryScheduler()
}

// startExpiryScheduler registers the periodic proposal-expiry sweep.
func (w *Worker) startExpiryScheduler() {
	w.scheduler = asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{})

	every := config.AppConfig.ExpirySweepMinutes
	if every <= 0 {
		every = 5
	}
	spec := fmt.Sprintf("@every %dm", every)
	if _, err := w.scheduler.Register(spec, tasks.NewProposalExpiryTask()); err != nil {
		utils.GetLogger().Error("worker: failed to register expiry sweep", zap.Error(err))
		return
	}

	go func() {
		if err := w.scheduler.Run(); err != nil {
			utils.GetLogger().Error("worker: expiry scheduler stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops the consumer and the scheduler.
func (w *Worker) Shutdown() {
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	if w.server != nil {
		w.server.Shutdown()
	}
}

func (w *Worker) handleMatchScan(ctx context.Context, task *asynq.Task) error {
	var p tasks.MatchScanPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("match scan: bad payload: %w", err)
	}
	created, err := w.Finder.FindMatches(ctx, p.RequirementID)
	if err != nil {
		return fmt.Errorf("match scan for %s: %w", p.RequirementID, err)
	}
	utils.GetLogger().Info("worker: match scan done",
		zap.String("requirementId", p.RequirementID), zap.Int("created", created))
	return nil
}

func (w *Worker) handleCleanupRequirement(ctx context.Context, task *asynq.Task) error {
	var p tasks.CleanupPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("cleanup: bad payload: %w", err)
	}
	deleted, err := w.Cleaner.CleanupForRequirement(ctx, p.EntityID)
	if err != nil {
		return err
	}
	utils.GetLogger().Info("worker: requirement cleanup done",
		zap.String("requirementId", p.EntityID), zap.Int64("deleted", deleted))
	return nil
}

func (w *Worker) handleCleanupSlot(ctx context.Context, task *asynq.Task) error {
	var p tasks.CleanupPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("cleanup: bad payload: %w", err)
	}
	deleted, err := w.Cleaner.CleanupForSlot(ctx, p.EntityID)
	if err != nil {
		return err
	}
	utils.GetLogger().Info("worker: slot cleanup done",
		zap.String("slotId", p.EntityID), zap.Int64("deleted", deleted))
	return nil
}

func (w *Worker) handleProposalExpiry(ctx context.Context, _ *asynq.Task) error {
	expired, err := w.Lifecycle.ExpireOverdueProposals(ctx, time.Now())
	if err != nil {
		return err
	}
	if expired > 0 {
		utils.GetLogger().Info("worker: expiry sweep done", zap.Int("expired", expired))
	}
	return nil
}
