package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/domain/repository"
)

// NotificationTrialExpiring is sent ahead of the end of the trial
const NotificationTrialExpiring = "trial_expiring"

const reminderPageSize = 200

// Notification is a message addressed to one user
type Notification struct {
	UserID uuid.UUID
	Kind   string
	Title  string
	Body   string
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg Notification) error {
	n.logger.Info("notification",
		zap.String("user_id", msg.UserID.String()),
		zap.String("kind", msg.Kind),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
	)
	return nil
}

// NotificationService finds users who should hear about their account state
type NotificationService struct {
	accounts repository.AccountRepository
	notifier Notifier
	clock    Clock
	logger   *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(accounts repository.AccountRepository, notifier Notifier, clock Clock, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		accounts: accounts,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// RemindExpiringTrials notifies every non-premium account whose trial has
// exactly daysBefore days remaining. Run once a day it reminds each account once.
func (s *NotificationService) RemindExpiringTrials(ctx context.Context, daysBefore int) (int, error) {
	now := s.clock.Now()
	sent := 0
	cursor := uuid.Nil
	for {
		ids, err := s.accounts.ListIDs(ctx, cursor, reminderPageSize)
		if err != nil {
			return sent, fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, id := range ids {
			account, err := s.accounts.GetByID(ctx, id)
			if err != nil {
				s.logger.Warn("skipping account", zap.String("user_id", id.String()), zap.Error(err))
				continue
			}
			if account.Premium {
				continue
			}
			trial := TrialStatusAt(account, now)
			if !trial.IsActive || trial.DaysRemaining != daysBefore {
				continue
			}
			err = s.notifier.Notify(ctx, Notification{
				UserID: id,
				Kind:   NotificationTrialExpiring,
				Title:  "Your free trial is ending soon",
				Body:   fmt.Sprintf("%d days left of full access. Upgrade to keep every feature.", trial.DaysRemaining),
			})
			if err != nil {
				s.logger.Warn("failed to send trial reminder", zap.String("user_id", id.String()), zap.Error(err))
				continue
			}
			sent++
		}
		if len(ids) < reminderPageSize {
			return sent, nil
		}
		cursor = ids[len(ids)-1]
	}
}
