package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/query"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// AccountHandler handles profile, progression and badge endpoints
type AccountHandler struct {
	accountQuery  *query.AccountQuery
	correctionCmd *command.StreakCorrectionCommand
	unlockCmd     *command.UnlockBadgeCommand
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	accountQuery *query.AccountQuery,
	correctionCmd *command.StreakCorrectionCommand,
	unlockCmd *command.UnlockBadgeCommand,
) *AccountHandler {
	return &AccountHandler{
		accountQuery:  accountQuery,
		correctionCmd: correctionCmd,
		unlockCmd:     unlockCmd,
	}
}

// Me returns the caller's account
// @Summary Get the caller's account
// @Tags account
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=dto.AccountResponse}
// @Router /me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.accountQuery.Profile(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Badges lists the caller's badges
// @Summary List badges
// @Tags gamification
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=[]dto.BadgeResponse}
// @Router /gamification/badges [get]
func (h *AccountHandler) Badges(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.accountQuery.Badges(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// UnlockBadge unlocks a badge and grants its XP once
// @Summary Unlock a badge
// @Tags gamification
// @Produce json
// @Security Bearer
// @Param id path string true "Badge ID"
// @Success 200 {object} response.SuccessResponse{data=dto.BadgeUnlockResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /gamification/badges/{id}/unlock [post]
func (h *AccountHandler) UnlockBadge(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.unlockCmd.Execute(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// BuyStreakCorrection trades currency for a streak correction
// @Summary Buy a streak correction
// @Tags gamification
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=dto.StreakCorrectionResponse}
// @Router /gamification/streak-corrections/buy [post]
func (h *AccountHandler) BuyStreakCorrection(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.correctionCmd.Buy(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// UseStreakCorrection consumes a streak correction
// @Summary Use a streak correction
// @Tags gamification
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=dto.StreakCorrectionResponse}
// @Router /gamification/streak-corrections/use [post]
func (h *AccountHandler) UseStreakCorrection(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.correctionCmd.Use(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}
