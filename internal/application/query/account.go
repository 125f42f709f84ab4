package query

import (
	"context"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/service"
)

// AccountQuery reads the caller's profile and badges
type AccountQuery struct {
	accounts     *service.AccountService
	gamification *service.GamificationService
}

// NewAccountQuery creates a new account query
func NewAccountQuery(accounts *service.AccountService, gamification *service.GamificationService) *AccountQuery {
	return &AccountQuery{
		accounts:     accounts,
		gamification: gamification,
	}
}

// Profile returns the account
func (q *AccountQuery) Profile(ctx context.Context, userID string) (*dto.AccountResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	account, err := q.accounts.GetAccount(ctx, uid)
	if err != nil {
		return nil, err
	}
	return dto.FromAccount(account), nil
}

// Badges returns the account's badges
func (q *AccountQuery) Badges(ctx context.Context, userID string) ([]dto.BadgeResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	badges, err := q.gamification.ListBadges(ctx, uid)
	if err != nil {
		return nil, err
	}
	return dto.FromBadges(badges), nil
}
