package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/di"
	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/kv"
	"github.com/bivex/habitpass/tests/testutil"
)

var start = testutil.Date(2024, time.March, 10)

// fixture is a service graph over an in-memory store
type fixture struct {
	clock *testutil.FrozenClock
	repos di.Repositories
}

func newFixture() *fixture {
	return &fixture{
		clock: testutil.NewFrozenClock(start),
		repos: di.KVRepositories(kv.NewMemoryStore()),
	}
}

func (f *fixture) account(t *testing.T, mutate func(a *entity.UserAccount)) *entity.UserAccount {
	t.Helper()
	a := testutil.NewAccountFactory().Create(f.clock.Now())
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, f.repos.Accounts.Create(context.Background(), a))
	return a
}

func (f *fixture) habit(t *testing.T, a *entity.UserAccount) *entity.Habit {
	t.Helper()
	h := testutil.NewHabitFactory().CreateDaily(a.ID, f.clock.Now())
	require.NoError(t, f.repos.Habits.Create(context.Background(), h))
	return h
}

func (f *fixture) reload(t *testing.T, a *entity.UserAccount) *entity.UserAccount {
	t.Helper()
	fresh, err := f.repos.Accounts.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	return fresh
}

var nop = zap.NewNop()
