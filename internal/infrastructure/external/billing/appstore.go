package billing

import (
	"context"
	"fmt"

	"github.com/awa/go-iap/appstore"

	"github.com/bivex/habitpass/internal/domain/service"
)

// AppStoreProvider approves a charge when Apple verifies a receipt containing the plan's product
type AppStoreProvider struct {
	client       *appstore.Client
	sharedSecret string
	products     ProductMap
}

// NewAppStoreProvider creates a new App Store provider
func NewAppStoreProvider(sharedSecret string, products ProductMap) *AppStoreProvider {
	return &AppStoreProvider{
		client:       appstore.New(),
		sharedSecret: sharedSecret,
		products:     products,
	}
}

func (p *AppStoreProvider) Name() string {
	return "appstore"
}

// Charge verifies the receipt. Sandbox receipts are retried against the sandbox by the client.
func (p *AppStoreProvider) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	product, ok := p.products[req.PlanID]
	if !ok || req.ReceiptData == "" {
		return &service.ChargeResult{Approved: false}, nil
	}

	iapReq := appstore.IAPRequest{
		ReceiptData:            req.ReceiptData,
		Password:               p.sharedSecret,
		ExcludeOldTransactions: true,
	}
	resp := &appstore.IAPResponse{}
	if err := p.client.Verify(ctx, iapReq, resp); err != nil {
		return nil, fmt.Errorf("failed to verify receipt: %w", err)
	}

	if resp.Status != 0 {
		return &service.ChargeResult{Approved: false}, nil
	}

	candidates := append([]appstore.InApp{}, resp.LatestReceiptInfo...)
	candidates = append(candidates, resp.Receipt.InApp...)
	for _, item := range candidates {
		if item.ProductID == product.ID {
			return &service.ChargeResult{
				Approved:      true,
				TransactionID: item.TransactionID,
				Receipt:       string(item.OriginalTransactionID),
			}, nil
		}
	}
	return &service.ChargeResult{Approved: false}, nil
}
