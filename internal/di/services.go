package di

import (
	"go.uber.org/zap"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/application/query"
	"github.com/bivex/habitpass/internal/domain/service"
	"github.com/bivex/habitpass/internal/interfaces/http/handlers"
	"github.com/bivex/habitpass/internal/interfaces/http/router"
)

// Services groups the domain services
type Services struct {
	Catalog       *service.Catalog
	Accounts      *service.AccountService
	Entitlements  *service.EntitlementService
	Purchases     *service.PurchaseService
	GraceDays     *service.GraceDayService
	Habits        *service.HabitService
	Gamification  *service.GamificationService
	Ads           *service.AdGateService
	Notifications *service.NotificationService
}

// ServiceDeps carries the collaborators that differ between processes and tests.
// Observer and Notifier are optional.
type ServiceDeps struct {
	Billing  service.BillingProvider
	Clock    service.Clock
	Logger   *zap.Logger
	Observer service.PurchaseObserver
	Notifier service.GraceDayNotifier
	Push     service.Notifier
}

// NewServices wires the domain services over repos
func NewServices(repos Repositories, deps ServiceDeps) Services {
	clock := deps.Clock
	if clock == nil {
		clock = service.SystemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	push := deps.Push
	if push == nil {
		push = service.NewLogNotifier(logger)
	}

	catalog := service.NewCatalog()
	gamification := service.NewGamificationService(repos.Accounts, repos.Badges, clock, logger)

	purchases := service.NewPurchaseService(repos.Accounts, repos.Transactions, catalog, deps.Billing, clock, logger)
	if deps.Observer != nil {
		purchases.WithObserver(deps.Observer)
	}

	graceDays := service.NewGraceDayService(repos.Accounts, repos.Habits, repos.GraceDays, clock, logger)
	if deps.Notifier != nil {
		graceDays.WithNotifier(deps.Notifier)
	}

	return Services{
		Catalog:       catalog,
		Accounts:      service.NewAccountService(repos.Accounts, repos.Habits, repos.Badges, clock, logger),
		Entitlements:  service.NewEntitlementService(repos.Accounts, clock),
		Purchases:     purchases,
		GraceDays:     graceDays,
		Habits:        service.NewHabitService(repos.Habits, repos.GraceDays, clock, logger).WithRewarder(gamification),
		Gamification:  gamification,
		Ads:           service.NewAdGateService(repos.Accounts, clock, logger),
		Notifications: service.NewNotificationService(repos.Accounts, push, clock, logger),
	}
}

// NewHandlers builds the commands, queries and HTTP handlers over svcs
func NewHandlers(svcs Services, jwt *middleware.JWTMiddleware, checks ...handlers.HealthCheck) router.Handlers {
	correctionCmd := command.NewStreakCorrectionCommand(svcs.Gamification, svcs.Accounts)

	return router.Handlers{
		Auth: handlers.NewAuthHandler(
			command.NewRegisterCommand(svcs.Accounts, jwt),
			command.NewRefreshTokenCommand(svcs.Accounts, jwt),
		),
		Account: handlers.NewAccountHandler(
			query.NewAccountQuery(svcs.Accounts, svcs.Gamification),
			correctionCmd,
			command.NewUnlockBadgeCommand(svcs.Gamification),
		),
		Entitlement: handlers.NewEntitlementHandler(
			query.NewGetEntitlementsQuery(svcs.Entitlements),
			query.NewCheckFeatureQuery(svcs.Entitlements),
		),
		Purchase: handlers.NewPurchaseHandler(
			query.NewListPlansQuery(svcs.Catalog, svcs.Accounts),
			query.NewPurchaseHistoryQuery(svcs.Purchases),
			command.NewPurchasePlanCommand(svcs.Purchases),
		),
		GraceDay: handlers.NewGraceDayHandler(
			query.NewGetGraceDaysQuery(svcs.GraceDays),
			command.NewApplyGraceDayCommand(svcs.GraceDays),
			command.NewPurchaseGraceDaysCommand(svcs.GraceDays),
		),
		Habit: handlers.NewHabitHandler(
			query.NewHabitsQuery(svcs.Habits),
			command.NewCreateHabitCommand(svcs.Habits),
			command.NewUpdateHabitCommand(svcs.Habits),
			command.NewDeleteHabitCommand(svcs.Habits),
			command.NewMarkHabitCommand(svcs.Habits),
		),
		Ad: handlers.NewAdHandler(
			query.NewAdStatusQuery(svcs.Ads),
			command.NewMarkAdShownCommand(svcs.Ads),
		),
		Health: handlers.NewHealthHandler(checks...),
	}
}
