package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	registerCmd *command.RegisterCommand
	refreshCmd  *command.RefreshTokenCommand
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(registerCmd *command.RegisterCommand, refreshCmd *command.RefreshTokenCommand) *AuthHandler {
	return &AuthHandler{
		registerCmd: registerCmd,
		refreshCmd:  refreshCmd,
	}
}

// Register handles sign-up. The trial starts now.
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} response.SuccessResponse{data=dto.RegisterResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.registerCmd.Execute(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, resp)
}

// RefreshToken rotates a refresh token
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} response.SuccessResponse{data=dto.RefreshTokenResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.refreshCmd.Execute(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, resp)
}
