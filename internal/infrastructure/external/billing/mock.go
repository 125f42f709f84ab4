package billing

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/service"
)

// MockProvider approves every charge after a fixed latency, failing a configurable share
type MockProvider struct {
	latency     time.Duration
	failureRate float64
	rand        func() float64
}

// NewMockProvider creates a mock provider. failureRate is in [0,1].
func NewMockProvider(latency time.Duration, failureRate float64) *MockProvider {
	return &MockProvider{
		latency:     latency,
		failureRate: failureRate,
		rand:        rand.Float64,
	}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if p.failureRate > 0 && p.rand() < p.failureRate {
		return nil, domainErrors.ErrExternalServiceUnavailable
	}

	txID := "mock_" + uuid.NewString()
	return &service.ChargeResult{
		Approved:      true,
		TransactionID: txID,
		Receipt:       txID,
	}, nil
}
