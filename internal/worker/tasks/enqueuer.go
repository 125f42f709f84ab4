package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/bivex/habitpass/internal/domain/service"
)

// Enqueuer submits tasks; *asynq.Client satisfies it
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewReconcileStreaksTask builds a TypeReconcileStreaks task for one user
func NewReconcileStreaksTask(userID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ReconcileStreaksPayload{UserID: userID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeReconcileStreaks, payload), nil
}

// Repeated requests for the same user within the window collapse into one task
func reconcileOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue("default"),
		asynq.MaxRetry(5),
		asynq.Unique(time.Minute),
	}
}

// StreakReconciler schedules a streak reconciliation whenever a grace day is applied
type StreakReconciler struct {
	enqueuer Enqueuer
}

// NewStreakReconciler creates a reconciler that enqueues through enqueuer
func NewStreakReconciler(enqueuer Enqueuer) *StreakReconciler {
	return &StreakReconciler{enqueuer: enqueuer}
}

var _ service.GraceDayNotifier = (*StreakReconciler)(nil)

// GraceDayApplied enqueues TypeReconcileStreaks for the event's user
func (r *StreakReconciler) GraceDayApplied(ctx context.Context, evt service.GraceDayApplied) error {
	task, err := NewReconcileStreaksTask(evt.UserID)
	if err != nil {
		return err
	}
	if _, err := r.enqueuer.EnqueueContext(ctx, task, reconcileOptions()...); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		return fmt.Errorf("failed to enqueue streak reconciliation: %w", err)
	}
	return nil
}
