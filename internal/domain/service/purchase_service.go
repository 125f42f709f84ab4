package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// User-facing purchase failure messages
const (
	MsgPlanNotFound     = "Plan not found"
	MsgNotAuthenticated = "User not authenticated"
	MsgPurchaseFailed   = "Purchase failed. Please try again."
)

const maxHistory = 50

// ChargeRequest is what a billing provider needs to charge for a plan
type ChargeRequest struct {
	UserID      uuid.UUID
	PlanID      valueobject.PlanID
	Price       valueobject.Money
	ReceiptData string
}

// ChargeResult is the provider's answer. Approved false is a decline, not an error.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	Receipt       string
}

// BillingProvider charges for plans
type BillingProvider interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// PurchaseObserver is notified of every purchase outcome
type PurchaseObserver interface {
	PurchaseCompleted(planID valueobject.PlanID, result entity.PurchaseResult)
}

// PurchaseService processes plan purchases.
// Purchases for one account are serialized, and identical concurrent
// requests (same account and plan) share a single billing call.
type PurchaseService struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	catalog      *Catalog
	billing      BillingProvider
	clock        Clock
	logger       *zap.Logger
	observer     PurchaseObserver

	locks  *accountLocks
	flight singleflight.Group
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	accounts repository.AccountRepository,
	transactions repository.TransactionRepository,
	catalog *Catalog,
	billing BillingProvider,
	clock Clock,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		accounts:     accounts,
		transactions: transactions,
		catalog:      catalog,
		billing:      billing,
		clock:        clock,
		logger:       logger,
		locks:        newAccountLocks(),
	}
}

// WithObserver sets the outcome observer
func (s *PurchaseService) WithObserver(o PurchaseObserver) *PurchaseService {
	s.observer = o
	return s
}

// PurchasePlan charges for planID and applies the plan to the account.
// It never returns an error; failures are reported in the result.
func (s *PurchaseService) PurchasePlan(ctx context.Context, userID uuid.UUID, planID valueobject.PlanID, receiptData string) entity.PurchaseResult {
	key := userID.String() + ":" + planID.String()
	v, _, shared := s.flight.Do(key, func() (interface{}, error) {
		return s.purchase(ctx, userID, planID, receiptData), nil
	})
	result := v.(entity.PurchaseResult)
	if shared {
		s.logger.Debug("purchase deduplicated", zap.String("user_id", userID.String()), zap.String("plan_id", planID.String()))
	}
	return result
}

func (s *PurchaseService) purchase(ctx context.Context, userID uuid.UUID, planID valueobject.PlanID, receiptData string) (result entity.PurchaseResult) {
	defer func() {
		if s.observer != nil {
			s.observer.PurchaseCompleted(planID, result)
		}
	}()

	unlock := s.locks.lock(userID)
	defer unlock()

	log := s.logger.With(zap.String("user_id", userID.String()), zap.String("plan_id", planID.String()))

	if _, err := s.catalog.Plan(planID); err != nil {
		return entity.PurchaseResult{PlanID: planID, Error: MsgPlanNotFound}
	}

	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return entity.PurchaseResult{PlanID: planID, Error: MsgNotAuthenticated}
		}
		log.Error("failed to load account", zap.Error(err))
		return retryable(planID)
	}

	price, err := s.catalog.AdjustedPrice(planID, account)
	if err != nil {
		return entity.PurchaseResult{PlanID: planID, Error: MsgPlanNotFound}
	}

	receiptHash := ""
	if receiptData != "" {
		receiptHash = hashReceipt(receiptData)
		dup, err := s.transactions.CheckDuplicateReceipt(ctx, receiptHash)
		if err != nil {
			log.Error("failed to check receipt", zap.Error(err))
			return retryable(planID)
		}
		if dup {
			return entity.PurchaseResult{PlanID: planID, Error: domainErrors.ErrReceiptInvalid.Error()}
		}
	}

	charge, err := s.charge(ctx, ChargeRequest{
		UserID:      userID,
		PlanID:      planID,
		Price:       price,
		ReceiptData: receiptData,
	})
	if err != nil {
		log.Warn("billing call failed", zap.Error(err))
		return retryable(planID)
	}

	now := s.clock.Now()
	txn := entity.NewTransaction(userID, planID, price, s.billing.Name(), now)
	txn.ReceiptHash = receiptHash
	txn.ProviderTxID = charge.TransactionID

	if !charge.Approved {
		txn.MarkFailed()
		if err := s.transactions.Record(ctx, txn, nil); err != nil {
			log.Warn("failed to record declined transaction", zap.Error(err))
		}
		return retryable(planID)
	}

	// The account may have changed while billing ran
	fresh, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		log.Error("failed to reload account after charge", zap.Error(err), zap.String("provider_tx_id", charge.TransactionID))
		return retryable(planID)
	}
	updated := fresh.Clone()
	if err := updated.ApplyPlan(planID, now); err != nil {
		log.Error("failed to apply plan", zap.Error(err))
		return retryable(planID)
	}

	if err := s.transactions.Record(ctx, txn, updated); err != nil {
		log.Error("failed to persist purchase", zap.Error(err), zap.String("provider_tx_id", charge.TransactionID))
		return retryable(planID)
	}

	log.Info("plan purchased", zap.String("provider", s.billing.Name()), zap.String("price", price.String()))
	return entity.PurchaseResult{Success: true, PlanID: planID, Receipt: charge.Receipt}
}

// History returns the user's most recent billing attempts, newest first
func (s *PurchaseService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Transaction, error) {
	if limit <= 0 || limit > maxHistory {
		limit = maxHistory
	}
	txns, err := s.transactions.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// charge calls the provider; a panicking provider is reported as an error
func (s *PurchaseService) charge(ctx context.Context, req ChargeRequest) (res *ChargeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: provider panic: %v", domainErrors.ErrBillingFailed, r)
		}
	}()
	res, err = s.billing.Charge(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrBillingFailed, err)
	}
	if res == nil {
		return nil, errors.New("billing provider returned no result")
	}
	return res, nil
}

func retryable(planID valueobject.PlanID) entity.PurchaseResult {
	return entity.PurchaseResult{PlanID: planID, Error: MsgPurchaseFailed, Retryable: true}
}

func hashReceipt(receipt string) string {
	sum := sha256.Sum256([]byte(receipt))
	return hex.EncodeToString(sum[:])
}

// accountLocks hands out one mutex per account, dropped once no holder remains
type accountLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[uuid.UUID]*accountLock)}
}

func (l *accountLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	al, ok := l.locks[id]
	if !ok {
		al = &accountLock{}
		l.locks[id] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()
	return func() {
		al.mu.Unlock()
		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
