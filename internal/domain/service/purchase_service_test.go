package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/tests/mocks"
)

type recordingObserver struct {
	mu      sync.Mutex
	results []entity.PurchaseResult
}

func (o *recordingObserver) PurchaseCompleted(_ valueobject.PlanID, r entity.PurchaseResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, r)
}

func approve(txID string) *service.ChargeResult {
	return &service.ChargeResult{Approved: true, TransactionID: txID, Receipt: "receipt-" + txID}
}

func TestPurchaseService_Transitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		before    func(a *entity.UserAccount)
		plan      valueobject.PlanID
		premium   bool
		premType  valueobject.PremiumType
		adRemoval valueobject.AdRemovalTier
	}{
		{"monthly", nil, valueobject.PlanPremiumMonthly, true, valueobject.PremiumMonthly, valueobject.AdRemovalNone},
		{"annual", nil, valueobject.PlanPremiumAnnual, true, valueobject.PremiumAnnual, valueobject.AdRemovalNone},
		{"basic ad removal", nil, valueobject.PlanAdRemovalBasic, false, "", valueobject.AdRemovalBasic},
		{"complete ad removal", nil, valueobject.PlanAdRemovalComplete, false, "", valueobject.AdRemovalComplete},
		{
			"basic never downgrades complete",
			func(a *entity.UserAccount) { a.AdRemoval = valueobject.AdRemovalComplete },
			valueobject.PlanAdRemovalBasic, false, "", valueobject.AdRemovalComplete,
		},
		{
			"premium keeps ad removal",
			func(a *entity.UserAccount) { a.AdRemoval = valueobject.AdRemovalBasic },
			valueobject.PlanPremiumAnnual, true, valueobject.PremiumAnnual, valueobject.AdRemovalBasic,
		},
		{"free is a no-op", nil, valueobject.PlanFree, false, "", valueobject.AdRemovalNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			billing := &mocks.MockBillingProvider{}
			billing.On("Charge", mock.Anything, mock.Anything).Return(approve("tx1"), nil)
			svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)
			account := f.account(t, tt.before)

			result := svc.PurchasePlan(ctx, account.ID, tt.plan, "")
			require.True(t, result.Success, result.Error)
			assert.Equal(t, tt.plan, result.PlanID)

			after := f.reload(t, account)
			assert.Equal(t, tt.premium, after.Premium)
			assert.Equal(t, tt.premType, after.PremiumType)
			assert.Equal(t, tt.adRemoval, after.AdRemoval)
		})
	}
}

func TestPurchaseService_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown plan", func(t *testing.T) {
		f := newFixture()
		billing := &mocks.MockBillingProvider{}
		svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)
		account := f.account(t, nil)

		result := svc.PurchasePlan(ctx, account.ID, "lifetime", "")
		assert.False(t, result.Success)
		assert.Equal(t, service.MsgPlanNotFound, result.Error)
		billing.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
	})

	t.Run("missing account", func(t *testing.T) {
		f := newFixture()
		billing := &mocks.MockBillingProvider{}
		svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)

		result := svc.PurchasePlan(ctx, uuid.New(), valueobject.PlanPremiumMonthly, "")
		assert.False(t, result.Success)
		assert.Equal(t, service.MsgNotAuthenticated, result.Error)
		assert.False(t, result.Retryable)
	})

	t.Run("billing error leaves account untouched", func(t *testing.T) {
		f := newFixture()
		billing := &mocks.MockBillingProvider{}
		billing.On("Charge", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
		observer := &recordingObserver{}
		svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop).
			WithObserver(observer)
		account := f.account(t, nil)

		result := svc.PurchasePlan(ctx, account.ID, valueobject.PlanPremiumMonthly, "")
		assert.False(t, result.Success)
		assert.True(t, result.Retryable)
		assert.Equal(t, service.MsgPurchaseFailed, result.Error)
		assert.False(t, f.reload(t, account).Premium)
		require.Len(t, observer.results, 1)
		assert.False(t, observer.results[0].Success)
	})

	t.Run("decline is recorded but not applied", func(t *testing.T) {
		f := newFixture()
		billing := &mocks.MockBillingProvider{}
		billing.On("Charge", mock.Anything, mock.Anything).Return(&service.ChargeResult{Approved: false, TransactionID: "d1"}, nil)
		svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)
		account := f.account(t, nil)

		result := svc.PurchasePlan(ctx, account.ID, valueobject.PlanAdRemovalBasic, "")
		assert.False(t, result.Success)
		assert.Equal(t, valueobject.AdRemovalNone, f.reload(t, account).AdRemoval)

		txns, err := f.repos.Transactions.ListByUserID(ctx, account.ID, 10)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.False(t, txns[0].IsSuccessful())
	})

	t.Run("panicking provider is contained", func(t *testing.T) {
		f := newFixture()
		billing := &mocks.MockBillingProvider{}
		billing.On("Charge", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })
		svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)
		account := f.account(t, nil)

		var result entity.PurchaseResult
		require.NotPanics(t, func() {
			result = svc.PurchasePlan(ctx, account.ID, valueobject.PlanPremiumMonthly, "")
		})
		assert.False(t, result.Success)
		assert.True(t, result.Retryable)
	})

	t.Run("failed persist rolls back", func(t *testing.T) {
		f := newFixture()
		account := f.account(t, nil)
		billing := &mocks.MockBillingProvider{}
		billing.On("Charge", mock.Anything, mock.Anything).Return(approve("tx2"), nil)
		txns := &mocks.MockTransactionRepository{}
		txns.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
		svc := service.NewPurchaseService(f.repos.Accounts, txns, service.NewCatalog(), billing, f.clock, nop)

		result := svc.PurchasePlan(ctx, account.ID, valueobject.PlanPremiumAnnual, "")
		assert.False(t, result.Success)
		assert.True(t, result.Retryable)
		assert.False(t, f.reload(t, account).Premium)
	})

	t.Run("duplicate receipt rejected", func(t *testing.T) {
		f := newFixture()
		billing := &mocks.MockBillingProvider{}
		billing.On("Charge", mock.Anything, mock.Anything).Return(approve("tx3"), nil).Once()
		svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)
		account := f.account(t, nil)

		first := svc.PurchasePlan(ctx, account.ID, valueobject.PlanAdRemovalBasic, "same-receipt")
		require.True(t, first.Success)

		second := svc.PurchasePlan(ctx, account.ID, valueobject.PlanAdRemovalComplete, "same-receipt")
		assert.False(t, second.Success)
		assert.False(t, second.Retryable)
		billing.AssertNumberOfCalls(t, "Charge", 1)
	})
}

func TestPurchaseService_AdjustedPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	billing := &mocks.MockBillingProvider{}
	billing.On("Charge", mock.Anything, mock.MatchedBy(func(req service.ChargeRequest) bool {
		return req.Price.Amount() == 4.99
	})).Return(approve("tx4"), nil).Once()
	svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)
	account := f.account(t, func(a *entity.UserAccount) { a.AdRemoval = valueobject.AdRemovalBasic })

	result := svc.PurchasePlan(ctx, account.ID, valueobject.PlanAdRemovalComplete, "")
	require.True(t, result.Success, result.Error)
	assert.Equal(t, valueobject.AdRemovalComplete, f.reload(t, account).AdRemoval)
	billing.AssertExpectations(t)
}

type slowProvider struct {
	calls   atomic.Int32
	release chan struct{}
}

func (p *slowProvider) Name() string { return "slow" }

func (p *slowProvider) Charge(ctx context.Context, _ service.ChargeRequest) (*service.ChargeResult, error) {
	p.calls.Add(1)
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return approve(uuid.NewString()), nil
}

func TestPurchaseService_ConcurrentTapsShareOneCharge(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	provider := &slowProvider{release: make(chan struct{})}
	svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), provider, f.clock, nop)
	account := f.account(t, nil)

	var wg sync.WaitGroup
	results := make([]entity.PurchaseResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.PurchasePlan(ctx, account.ID, valueobject.PlanPremiumMonthly, "")
		}(i)
	}

	require.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.Success)
	}
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.True(t, f.reload(t, account).Premium)
}

func TestCatalog(t *testing.T) {
	catalog := service.NewCatalog()

	t.Run("plans in display order", func(t *testing.T) {
		plans := catalog.Plans()
		require.Len(t, plans, 5)
		assert.Equal(t, valueobject.PlanFree, plans[0].ID)
		assert.True(t, plans[2].Popular)
	})

	t.Run("adjusted price only discounts the complete upgrade", func(t *testing.T) {
		basic := entity.NewUserAccount("a@example.com", "A", start)
		basic.AdRemoval = valueobject.AdRemovalBasic

		price, err := catalog.AdjustedPrice(valueobject.PlanAdRemovalComplete, basic)
		require.NoError(t, err)
		assert.Equal(t, 4.99, price.Amount())

		price, err = catalog.AdjustedPrice(valueobject.PlanAdRemovalComplete, entity.NewUserAccount("b@example.com", "B", start))
		require.NoError(t, err)
		assert.Equal(t, 9.99, price.Amount())

		price, err = catalog.AdjustedPrice(valueobject.PlanPremiumMonthly, basic)
		require.NoError(t, err)
		assert.Equal(t, 0.99, price.Amount())
	})

	t.Run("unknown plan", func(t *testing.T) {
		_, err := catalog.Plan("lifetime")
		assert.Error(t, err)
	})
}

func TestPurchaseService_History(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	billing := &mocks.MockBillingProvider{}
	billing.On("Charge", mock.Anything, mock.Anything).Return(approve("tx1"), nil).Once()
	billing.On("Charge", mock.Anything, mock.Anything).Return(approve("tx2"), nil).Once()
	svc := service.NewPurchaseService(f.repos.Accounts, f.repos.Transactions, service.NewCatalog(), billing, f.clock, nop)
	account := f.account(t, nil)

	require.True(t, svc.PurchasePlan(ctx, account.ID, valueobject.PlanAdRemovalBasic, "").Success)
	f.clock.Advance(time.Hour)
	require.True(t, svc.PurchasePlan(ctx, account.ID, valueobject.PlanPremiumMonthly, "").Success)

	history, err := svc.History(ctx, account.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, valueobject.PlanPremiumMonthly, history[0].PlanID)
	assert.Equal(t, valueobject.PlanAdRemovalBasic, history[1].PlanID)

	latest, err := svc.History(ctx, account.ID, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)

	none, err := svc.History(ctx, uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
