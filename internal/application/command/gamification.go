package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
)

// StreakCorrectionCommand buys and consumes streak corrections
type StreakCorrectionCommand struct {
	gamification *service.GamificationService
	accounts     *service.AccountService
}

// NewStreakCorrectionCommand creates a new streak correction command
func NewStreakCorrectionCommand(gamification *service.GamificationService, accounts *service.AccountService) *StreakCorrectionCommand {
	return &StreakCorrectionCommand{
		gamification: gamification,
		accounts:     accounts,
	}
}

// Buy trades currency for one correction. Insufficient currency is reported with Success false.
func (c *StreakCorrectionCommand) Buy(ctx context.Context, userID string) (*dto.StreakCorrectionResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	account, err := c.gamification.BuyStreakCorrection(ctx, uid)
	return c.result(ctx, uid, account, err, entity.ErrInsufficientCurrency)
}

// Use consumes one correction. Having none left is reported with Success false.
func (c *StreakCorrectionCommand) Use(ctx context.Context, userID string) (*dto.StreakCorrectionResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	account, err := c.gamification.UseStreakCorrection(ctx, uid)
	return c.result(ctx, uid, account, err, entity.ErrNoStreakCorrections)
}

func (c *StreakCorrectionCommand) result(ctx context.Context, userID uuid.UUID, account *entity.UserAccount, err error, expected error) (*dto.StreakCorrectionResponse, error) {
	if err == nil {
		return &dto.StreakCorrectionResponse{
			Success:           true,
			StreakCorrections: account.StreakCorrections,
			Currency:          account.Currency,
		}, nil
	}

	reason, ok := refusal(err, expected)
	if !ok {
		return nil, err
	}
	current, err := c.accounts.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.StreakCorrectionResponse{
		Success:           false,
		Reason:            reason,
		StreakCorrections: current.StreakCorrections,
		Currency:          current.Currency,
	}, nil
}

// UnlockBadgeCommand unlocks a badge for the caller
type UnlockBadgeCommand struct {
	gamification *service.GamificationService
}

// NewUnlockBadgeCommand creates a new unlock badge command
func NewUnlockBadgeCommand(gamification *service.GamificationService) *UnlockBadgeCommand {
	return &UnlockBadgeCommand{gamification: gamification}
}

// Execute unlocks badgeID. An already unlocked badge reports Unlocked false.
func (c *UnlockBadgeCommand) Execute(ctx context.Context, userID, badgeID string) (*dto.BadgeUnlockResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	bid, err := parseID("badge", badgeID)
	if err != nil {
		return nil, err
	}
	unlocked, err := c.gamification.UnlockBadge(ctx, uid, bid)
	if err != nil {
		return nil, err
	}
	return &dto.BadgeUnlockResponse{BadgeID: badgeID, Unlocked: unlocked}, nil
}
