package query

import (
	"context"

	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/domain/service"
)

// Ad placements
const (
	PlacementInterstitial = "interstitial"
	PlacementBanner       = "banner"
)

// AdStatusQuery answers whether an ad placement may be shown now
type AdStatusQuery struct {
	ads *service.AdGateService
}

// NewAdStatusQuery creates a new ad status query
func NewAdStatusQuery(ads *service.AdGateService) *AdStatusQuery {
	return &AdStatusQuery{ads: ads}
}

// Interstitial executes the query for the interstitial placement
func (q *AdStatusQuery) Interstitial(ctx context.Context, userID string) (*dto.AdStatusResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	show, err := q.ads.CanShowInterstitial(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.AdStatusResponse{Placement: PlacementInterstitial, Show: show}, nil
}

// Banner executes the query for the banner placement
func (q *AdStatusQuery) Banner(ctx context.Context, userID string) (*dto.AdStatusResponse, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	show, err := q.ads.ShouldShowBanner(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.AdStatusResponse{Placement: PlacementBanner, Show: show}, nil
}
