package di

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/kv"
	pgrepo "github.com/bivex/habitpass/internal/infrastructure/persistence/repository"
)

// Repositories groups the persistence ports used by the services
type Repositories struct {
	Accounts     repository.AccountRepository
	Habits       repository.HabitRepository
	GraceDays    repository.GraceDayRepository
	Badges       repository.BadgeRepository
	Transactions repository.TransactionRepository
}

// PostgresRepositories backs every repository with PostgreSQL
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts:     pgrepo.NewAccountRepository(pool),
		Habits:       pgrepo.NewHabitRepository(pool),
		GraceDays:    pgrepo.NewGraceDayRepository(pool),
		Badges:       pgrepo.NewBadgeRepository(pool),
		Transactions: pgrepo.NewTransactionRepository(pool),
	}
}

// KVRepositories backs every repository with JSON documents in store
func KVRepositories(store kv.Store) Repositories {
	return Repositories{
		Accounts:     kv.NewAccountRepository(store),
		Habits:       kv.NewHabitRepository(store),
		GraceDays:    kv.NewGraceDayRepository(store),
		Badges:       kv.NewBadgeRepository(store),
		Transactions: kv.NewTransactionRepository(store),
	}
}
