package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

func TestCanShowInterstitialAt(t *testing.T) {
	expired := start.Add(entity.TrialDuration + time.Hour)
	shownAt := func(t time.Time) func(a *entity.UserAccount) {
		return func(a *entity.UserAccount) { a.LastAdShown = &t }
	}

	tests := []struct {
		name    string
		setup   func(a *entity.UserAccount)
		now     time.Time
		allowed bool
	}{
		{"never during trial", nil, start, false},
		{"free account with no prior ad", nil, expired, true},
		{"within the interval", shownAt(expired.Add(-4 * time.Minute)), expired, false},
		{"exactly at the interval", shownAt(expired.Add(-service.InterstitialInterval)), expired, true},
		{"one second past the interval", shownAt(expired.Add(-service.InterstitialInterval - time.Second)), expired, true},
		{"premium", func(a *entity.UserAccount) { a.Premium = true }, expired, false},
		{"basic ad removal", func(a *entity.UserAccount) { a.AdRemoval = valueobject.AdRemovalBasic }, expired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := entity.NewUserAccount("a@example.com", "A", start)
			if tt.setup != nil {
				tt.setup(account)
			}
			assert.Equal(t, tt.allowed, service.CanShowInterstitialAt(account, tt.now))
		})
	}
}

func TestShouldShowBannerAt(t *testing.T) {
	expired := start.Add(entity.TrialDuration)

	account := entity.NewUserAccount("a@example.com", "A", start)
	assert.False(t, service.ShouldShowBannerAt(account, start))
	assert.True(t, service.ShouldShowBannerAt(account, expired))

	account.AdRemoval = valueobject.AdRemovalBasic
	assert.True(t, service.ShouldShowBannerAt(account, expired))

	account.AdRemoval = valueobject.AdRemovalComplete
	assert.False(t, service.ShouldShowBannerAt(account, expired))
}

func TestAdGateService_MarkAdShown(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := service.NewAdGateService(f.repos.Accounts, f.clock, nop)
	account := f.account(t, nil)
	f.clock.Advance(entity.TrialDuration + time.Hour)

	ok, err := svc.CanShowInterstitial(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// checking does not record anything
	ok, err = svc.CanShowInterstitial(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.MarkAdShown(ctx, account.ID))
	ok, err = svc.CanShowInterstitial(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	f.clock.Advance(service.InterstitialInterval)
	ok, err = svc.CanShowInterstitial(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	banner, err := svc.ShouldShowBanner(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, banner)
}
