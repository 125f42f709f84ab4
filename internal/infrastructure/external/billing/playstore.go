package billing

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/option"

	"github.com/bivex/habitpass/internal/domain/service"
)

// Play purchase states
const (
	playProductPurchased  = 0
	playSubscriptionPaid  = 1
	playSubscriptionTrial = 2
)

// PlayStoreProvider approves a charge when Google Play reports the purchase token as paid.
// ReceiptData is the purchase token.
type PlayStoreProvider struct {
	publisher   *androidpublisher.Service
	packageName string
	products    ProductMap
}

// NewPlayStoreProvider authenticates with a service account and builds the publisher client
func NewPlayStoreProvider(ctx context.Context, serviceAccountJSON, packageName string, products ProductMap) (*PlayStoreProvider, error) {
	creds, err := google.CredentialsFromJSON(ctx, []byte(serviceAccountJSON), androidpublisher.AndroidpublisherScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	publisher, err := androidpublisher.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Android Publisher service: %w", err)
	}

	return &PlayStoreProvider{
		publisher:   publisher,
		packageName: packageName,
		products:    products,
	}, nil
}

func (p *PlayStoreProvider) Name() string {
	return "playstore"
}

func (p *PlayStoreProvider) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	product, ok := p.products[req.PlanID]
	if !ok || req.ReceiptData == "" {
		return &service.ChargeResult{Approved: false}, nil
	}

	if product.Subscription {
		sub, err := p.publisher.Purchases.Subscriptions.Get(p.packageName, product.ID, req.ReceiptData).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to verify Google Play subscription: %w", err)
		}
		paid := sub.PaymentState != nil &&
			(*sub.PaymentState == playSubscriptionPaid || *sub.PaymentState == playSubscriptionTrial)
		return &service.ChargeResult{
			Approved:      paid,
			TransactionID: sub.OrderId,
			Receipt:       req.ReceiptData,
		}, nil
	}

	purchase, err := p.publisher.Purchases.Products.Get(p.packageName, product.ID, req.ReceiptData).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to verify Google Play product: %w", err)
	}
	return &service.ChargeResult{
		Approved:      purchase.PurchaseState == playProductPurchased,
		TransactionID: purchase.OrderId,
		Receipt:       req.ReceiptData,
	}, nil
}
