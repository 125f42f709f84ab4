package query

import (
	"context"
	"fmt"

	"github.com/bivex/habitpass/internal/application/dto"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/service"
)

// GetEntitlementsQuery returns the caller's trial, limits and ad flags
type GetEntitlementsQuery struct {
	entitlements *service.EntitlementService
}

// NewGetEntitlementsQuery creates a new get entitlements query
func NewGetEntitlementsQuery(entitlements *service.EntitlementService) *GetEntitlementsQuery {
	return &GetEntitlementsQuery{entitlements: entitlements}
}

// Execute executes the get entitlements query
func (q *GetEntitlementsQuery) Execute(ctx context.Context, userID string) (*dto.EntitlementsResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	snapshot, err := q.entitlements.Snapshot(ctx, uid)
	if err != nil {
		return nil, err
	}
	return dto.FromEntitlements(snapshot), nil
}

// CheckFeatureQuery reports whether a single feature is unlocked
type CheckFeatureQuery struct {
	entitlements *service.EntitlementService
}

// NewCheckFeatureQuery creates a new check feature query
func NewCheckFeatureQuery(entitlements *service.EntitlementService) *CheckFeatureQuery {
	return &CheckFeatureQuery{entitlements: entitlements}
}

// Execute executes the check feature query. Feature names are open-ended;
// only the empty name is rejected.
func (q *CheckFeatureQuery) Execute(ctx context.Context, userID, feature string) (*dto.FeatureAccessResponse, error) {
	if feature == "" {
		return nil, fmt.Errorf("%w: empty feature", domainErrors.ErrInvalidFeature)
	}
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	unlocked, err := q.entitlements.IsFeatureUnlocked(ctx, uid, feature)
	if err != nil {
		return nil, err
	}
	return &dto.FeatureAccessResponse{Feature: feature, Unlocked: unlocked}, nil
}
