package command

import (
	"context"
	"fmt"
	"time"

	"github.com/bivex/habitpass/internal/application/dto"
	appMiddleware "github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/domain/service"
)

// RefreshTokenCommand rotates a refresh token into a new token pair
type RefreshTokenCommand struct {
	accounts      *service.AccountService
	jwtMiddleware *appMiddleware.JWTMiddleware
}

// NewRefreshTokenCommand creates a new refresh token command
func NewRefreshTokenCommand(accounts *service.AccountService, jwtMiddleware *appMiddleware.JWTMiddleware) *RefreshTokenCommand {
	return &RefreshTokenCommand{
		accounts:      accounts,
		jwtMiddleware: jwtMiddleware,
	}
}

// Execute validates the refresh token, revokes it and issues a new pair.
// Deleted accounts cannot refresh.
func (c *RefreshTokenCommand) Execute(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	claims, err := c.jwtMiddleware.ParseToken(req.RefreshToken)
	if err != nil || claims.Type != appMiddleware.TokenTypeRefresh {
		return nil, appMiddleware.ErrInvalidToken
	}

	revoked, err := c.jwtMiddleware.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blocklist: %w", err)
	}
	if revoked {
		return nil, appMiddleware.ErrTokenRevoked
	}

	userID, err := parseUserID(claims.UserID)
	if err != nil {
		return nil, appMiddleware.ErrInvalidToken
	}
	if _, err := c.accounts.GetAccount(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			if err := c.jwtMiddleware.RevokeToken(ctx, claims.JTI, remaining); err != nil {
				return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	}

	accessToken, _, err := c.jwtMiddleware.GenerateAccessToken(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, _, err := c.jwtMiddleware.GenerateRefreshToken(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(c.jwtMiddleware.AccessTTL().Seconds()),
	}, nil
}
