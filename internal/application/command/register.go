package command

import (
	"context"
	"fmt"

	"github.com/bivex/habitpass/internal/application/dto"
	appMiddleware "github.com/bivex/habitpass/internal/application/middleware"
	"github.com/bivex/habitpass/internal/domain/service"
)

// RegisterCommand handles sign-up
type RegisterCommand struct {
	accounts      *service.AccountService
	jwtMiddleware *appMiddleware.JWTMiddleware
}

// NewRegisterCommand creates a new register command
func NewRegisterCommand(accounts *service.AccountService, jwtMiddleware *appMiddleware.JWTMiddleware) *RegisterCommand {
	return &RegisterCommand{
		accounts:      accounts,
		jwtMiddleware: jwtMiddleware,
	}
}

// Execute creates the account, which starts its trial, and issues tokens
func (c *RegisterCommand) Execute(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	account, err := c.accounts.SignUp(ctx, req.Email, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	accessToken, _, err := c.jwtMiddleware.GenerateAccessToken(account.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := c.jwtMiddleware.GenerateRefreshToken(account.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &dto.RegisterResponse{
		UserID:       account.ID.String(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(c.jwtMiddleware.AccessTTL().Seconds()),
		Account:      dto.FromAccount(account),
	}, nil
}
