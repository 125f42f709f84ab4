package query

import (
	"context"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/service"
)

// GetGraceDaysQuery returns the remaining allowance and the ledger
type GetGraceDaysQuery struct {
	graceDays *service.GraceDayService
}

// NewGetGraceDaysQuery creates a new get grace days query
func NewGetGraceDaysQuery(graceDays *service.GraceDayService) *GetGraceDaysQuery {
	return &GetGraceDaysQuery{graceDays: graceDays}
}

// Execute executes the get grace days query
func (q *GetGraceDaysQuery) Execute(ctx context.Context, userID string) (*dto.GraceDaysResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	remaining, err := q.graceDays.GetGraceDaysRemaining(ctx, uid)
	if err != nil {
		return nil, err
	}
	history, err := q.graceDays.History(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.GraceDaysResponse{
		Remaining: remaining,
		History:   dto.FromGraceDayActions(history),
	}, nil
}
