package command

import (
	"context"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// PurchasePlanCommand purchases a catalog plan for the caller
type PurchasePlanCommand struct {
	purchases *service.PurchaseService
}

// NewPurchasePlanCommand creates a new purchase plan command
func NewPurchasePlanCommand(purchases *service.PurchaseService) *PurchasePlanCommand {
	return &PurchasePlanCommand{purchases: purchases}
}

// Execute runs the purchase. Billing and plan failures are reported in the
// response, only malformed requests return an error.
func (c *PurchasePlanCommand) Execute(ctx context.Context, userID string, req *dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	result := c.purchases.PurchasePlan(ctx, id, valueobject.PlanID(req.PlanID), req.ReceiptData)
	return dto.FromPurchaseResult(result), nil
}
