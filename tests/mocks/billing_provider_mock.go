package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bivex/habitpass/internal/domain/service"
)

// MockBillingProvider is a mock implementation of BillingProvider
type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) Name() string {
	return "mock-provider"
}

func (m *MockBillingProvider) Charge(ctx context.Context, req service.ChargeRequest) (*service.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChargeResult), args.Error(1)
}
