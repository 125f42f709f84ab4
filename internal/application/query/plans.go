package query

import (
	"context"
	"fmt"
	"time"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
)

// ListPlansQuery returns the catalog priced for the caller
type ListPlansQuery struct {
	catalog  *service.Catalog
	accounts *service.AccountService
}

// NewListPlansQuery creates a new list plans query
func NewListPlansQuery(catalog *service.Catalog, accounts *service.AccountService) *ListPlansQuery {
	return &ListPlansQuery{
		catalog:  catalog,
		accounts: accounts,
	}
}

// Execute executes the list plans query
func (q *ListPlansQuery) Execute(ctx context.Context, userID string) ([]dto.PlanResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	account, err := q.accounts.GetAccount(ctx, uid)
	if err != nil {
		return nil, err
	}

	plans := q.catalog.Plans()
	out := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		adjusted, err := q.catalog.AdjustedPrice(plans[i].ID, account)
		if err != nil {
			return nil, fmt.Errorf("failed to price plan %s: %w", plans[i].ID, err)
		}
		out = append(out, toPlanResponse(&plans[i], adjusted.Amount()))
	}
	return out, nil
}

func toPlanResponse(p *entity.SubscriptionPlan, adjusted float64) dto.PlanResponse {
	features := make([]string, len(p.Features))
	copy(features, p.Features)
	return dto.PlanResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Price:         p.Price.Amount(),
		AdjustedPrice: adjusted,
		Currency:      p.Price.Currency,
		Period:        string(p.Period),
		Features:      features,
		Popular:       p.Popular,
	}
}

// PurchaseHistoryQuery lists the caller's billing attempts
type PurchaseHistoryQuery struct {
	purchases *service.PurchaseService
}

// NewPurchaseHistoryQuery creates a new purchase history query
func NewPurchaseHistoryQuery(purchases *service.PurchaseService) *PurchaseHistoryQuery {
	return &PurchaseHistoryQuery{purchases: purchases}
}

// Execute returns up to limit transactions, newest first. A limit of 0 uses the default.
func (q *PurchaseHistoryQuery) Execute(ctx context.Context, userID string, limit int) ([]dto.TransactionResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	txns, err := q.purchases.History(ctx, uid, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, dto.TransactionResponse{
			ID:        t.ID.String(),
			PlanID:    t.PlanID.String(),
			Amount:    t.Amount.Amount(),
			Currency:  t.Amount.Currency,
			Status:    string(t.Status),
			Provider:  t.Provider,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}
