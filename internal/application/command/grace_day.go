package command

import (
	"context"
	"fmt"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// ApplyGraceDayCommand covers a missed habit day from the ledger
type ApplyGraceDayCommand struct {
	graceDays *service.GraceDayService
}

// NewApplyGraceDayCommand creates a new apply grace day command
func NewApplyGraceDayCommand(graceDays *service.GraceDayService) *ApplyGraceDayCommand {
	return &ApplyGraceDayCommand{graceDays: graceDays}
}

// Execute applies the grace day. A refusal is reported with Applied false.
func (c *ApplyGraceDayCommand) Execute(ctx context.Context, userID string, req *dto.ApplyGraceDayRequest) (*dto.GraceDayResultResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	habitID, err := parseID("habit", req.HabitID)
	if err != nil {
		return nil, err
	}
	coveredDay, err := parseOptionalDay(req.CoveredDay)
	if err != nil {
		return nil, err
	}
	gdType, err := valueobject.NewGraceDayType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidInput, err)
	}

	resp := &dto.GraceDayResultResponse{}
	applied, err := c.graceDays.ApplyGraceDay(ctx, uid, habitID, coveredDay, gdType)
	if err != nil {
		reason, ok := refusal(err,
			service.ErrNoGraceDaysRemaining,
			service.ErrGraceDayInFuture,
			service.ErrDayAlreadyCovered,
			service.ErrInvalidGraceDayUse,
		)
		if !ok {
			return nil, err
		}
		resp.Reason = reason
	}
	resp.Applied = applied

	if resp.Remaining, err = c.graceDays.GetGraceDaysRemaining(ctx, uid); err != nil {
		return nil, err
	}
	return resp, nil
}

// PurchaseGraceDaysCommand converts XP into earned grace days
type PurchaseGraceDaysCommand struct {
	graceDays *service.GraceDayService
}

// NewPurchaseGraceDaysCommand creates a new purchase grace days command
func NewPurchaseGraceDaysCommand(graceDays *service.GraceDayService) *PurchaseGraceDaysCommand {
	return &PurchaseGraceDaysCommand{graceDays: graceDays}
}

// Execute buys req.Count grace days. Insufficient XP or the earned cap is reported with Applied false.
func (c *PurchaseGraceDaysCommand) Execute(ctx context.Context, userID string, req *dto.PurchaseGraceDaysRequest) (*dto.GraceDayResultResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.GraceDayResultResponse{}
	applied, err := c.graceDays.PurchaseGraceDaysWithXP(ctx, uid, req.Count)
	if err != nil {
		reason, ok := refusal(err,
			entity.ErrInsufficientXP,
			entity.ErrGraceDayCapExceeded,
			service.ErrInvalidGraceDayCount,
		)
		if !ok {
			return nil, err
		}
		resp.Reason = reason
	}
	resp.Applied = applied

	if resp.Remaining, err = c.graceDays.GetGraceDaysRemaining(ctx, uid); err != nil {
		return nil, err
	}
	return resp, nil
}
