package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/infrastructure/config"
	"github.com/bivex/habitpass/internal/infrastructure/logging"
)

// Task names
const (
	TypeReconcileStreaks     = "reconcile:streaks"
	TypeReconcileAllStreaks  = "reconcile:all_streaks"
	TypeRemindExpiringTrials = "notify:trial_expiring"
)

const accountPageSize = 500

// ReconcileStreaksPayload is the payload of TypeReconcileStreaks
type ReconcileStreaksPayload struct {
	UserID string `json:"user_id"`
}

// RemindExpiringTrialsPayload is the payload of TypeRemindExpiringTrials
type RemindExpiringTrialsPayload struct {
	DaysBefore int `json:"days_before"`
}

// TaskHandlers holds dependencies for all task handlers.
type TaskHandlers struct {
	habits        *service.HabitService
	accounts      repository.AccountRepository
	notifications *service.NotificationService
	enqueuer      Enqueuer
	logger        *zap.Logger
}

// NewTaskHandlers creates task handlers
func NewTaskHandlers(
	habits *service.HabitService,
	accounts repository.AccountRepository,
	notifications *service.NotificationService,
	enqueuer Enqueuer,
) *TaskHandlers {
	return &TaskHandlers{
		habits:        habits,
		accounts:      accounts,
		notifications: notifications,
		enqueuer:      enqueuer,
		logger:        logging.WithComponent("worker"),
	}
}

// RegisterHandlers registers all task handlers with the server mux.
func RegisterHandlers(mux *asynq.ServeMux, h *TaskHandlers) {
	mux.HandleFunc(TypeReconcileStreaks, h.HandleReconcileStreaks)
	mux.HandleFunc(TypeReconcileAllStreaks, h.HandleReconcileAllStreaks)
	mux.HandleFunc(TypeRemindExpiringTrials, h.HandleRemindExpiringTrials)
}

// RegisterScheduledTasks registers all scheduled (cron) tasks
func RegisterScheduledTasks(scheduler *asynq.Scheduler, cfg config.WorkerConfig) error {
	if _, err := scheduler.Register(cfg.ReconcileCron, asynq.NewTask(TypeReconcileAllStreaks, nil)); err != nil {
		return fmt.Errorf("failed to schedule streak reconciliation: %w", err)
	}

	payload, err := json.Marshal(RemindExpiringTrialsPayload{DaysBefore: daysBefore(cfg.TrialReminderWithin)})
	if err != nil {
		return err
	}
	if _, err := scheduler.Register(cfg.TrialReminderCron, asynq.NewTask(TypeRemindExpiringTrials, payload)); err != nil {
		return fmt.Errorf("failed to schedule trial reminders: %w", err)
	}
	return nil
}

func daysBefore(within time.Duration) int {
	days := int(math.Ceil(within.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// HandleReconcileStreaks recomputes one user's cached streaks from history and covered days
func (h *TaskHandlers) HandleReconcileStreaks(ctx context.Context, t *asynq.Task) error {
	var payload ReconcileStreaksPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user_id: %v", asynq.SkipRetry, err)
	}

	updated, err := h.habits.ReconcileStreaks(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to reconcile streaks: %w", err)
	}

	h.logger.Info("Streaks reconciled",
		zap.String("user_id", payload.UserID),
		zap.Int("habits_updated", updated),
	)
	return nil
}

// HandleReconcileAllStreaks pages through every account and enqueues a per-user task
func (h *TaskHandlers) HandleReconcileAllStreaks(ctx context.Context, _ *asynq.Task) error {
	cursor := uuid.Nil
	enqueued := 0
	for {
		ids, err := h.accounts.ListIDs(ctx, cursor, accountPageSize)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, id := range ids {
			task, err := NewReconcileStreaksTask(id)
			if err != nil {
				return err
			}
			_, err = h.enqueuer.EnqueueContext(ctx, task, reconcileOptions()...)
			if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
				h.logger.Warn("Failed to enqueue streak reconciliation",
					zap.String("user_id", id.String()),
					zap.Error(err),
				)
				continue
			}
			enqueued++
		}
		if len(ids) < accountPageSize {
			break
		}
		cursor = ids[len(ids)-1]
	}

	h.logger.Info("Streak reconciliation fanned out", zap.Int("accounts", enqueued))
	return nil
}

// HandleRemindExpiringTrials notifies accounts whose trial is about to end
func (h *TaskHandlers) HandleRemindExpiringTrials(ctx context.Context, t *asynq.Task) error {
	payload := RemindExpiringTrialsPayload{DaysBefore: 2}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
	}

	sent, err := h.notifications.RemindExpiringTrials(ctx, payload.DaysBefore)
	if err != nil {
		return fmt.Errorf("failed to send trial reminders: %w", err)
	}

	h.logger.Info("Trial reminders sent",
		zap.Int("days_before", payload.DaysBefore),
		zap.Int("sent", sent),
	)
	return nil
}
