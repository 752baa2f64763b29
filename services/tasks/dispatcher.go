package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"medshift/config"
)

// Dispatcher enqueues the engine's trigger tasks. Services depend on this
// interface so tests can run the handlers synchronously.
type Dispatcher interface {
	DispatchMatchScan(ctx context.Context, requirementID string) error
	DispatchCleanupRequirement(ctx context.Context, requirementID string) error
	DispatchCleanupSlot(ctx context.Context, slotID string) error
}

// AsynqDispatcher is the production Dispatcher backed by the Redis queue.
type AsynqDispatcher struct {
	client *asynq.Client
}

// NewAsynqDispatcher builds the dispatcher from the app's Redis config.
func NewAsynqDispatcher() *AsynqDispatcher {
	return &AsynqDispatcher{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

func (d *AsynqDispatcher) DispatchMatchScan(ctx context.Context, requirementID string) error {
	task, err := NewMatchScanTask(requirementID)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

func (d *AsynqDispatcher) DispatchCleanupRequirement(ctx context.Context, requirementID string) error {
	task, err := NewCleanupRequirementTask(requirementID)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

func (d *AsynqDispatcher) DispatchCleanupSlot(ctx context.Context, slotID string) error {
	task, err := NewCleanupSlotTask(slotID)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, task)
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, task *asynq.Task) error {
	if _, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	return nil
}

// Close releases the underlying queue connection.
func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
