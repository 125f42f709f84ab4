package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/application/query"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// GraceDayHandler handles the grace-day ledger
type GraceDayHandler struct {
	graceDaysQuery *query.GetGraceDaysQuery
	applyCmd       *command.ApplyGraceDayCommand
	purchaseCmd    *command.PurchaseGraceDaysCommand
}

// NewGraceDayHandler creates a new grace day handler
func NewGraceDayHandler(
	graceDaysQuery *query.GetGraceDaysQuery,
	applyCmd *command.ApplyGraceDayCommand,
	purchaseCmd *command.PurchaseGraceDaysCommand,
) *GraceDayHandler {
	return &GraceDayHandler{
		graceDaysQuery: graceDaysQuery,
		applyCmd:       applyCmd,
		purchaseCmd:    purchaseCmd,
	}
}

// GetGraceDays returns the remaining allowance and the ledger
// @Summary Get grace days
// @Tags grace-days
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=dto.GraceDaysResponse}
// @Router /grace-days [get]
func (h *GraceDayHandler) GetGraceDays(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.graceDaysQuery.Execute(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Apply covers a missed habit day
// @Summary Apply a grace day
// @Tags grace-days
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.ApplyGraceDayRequest true "Apply request"
// @Success 200 {object} response.SuccessResponse{data=dto.GraceDayResultResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /grace-days/apply [post]
func (h *GraceDayHandler) Apply(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.ApplyGraceDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	resp, err := h.applyCmd.Execute(c.Request.Context(), uid, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Purchase converts XP into grace days
// @Summary Buy grace days with XP
// @Tags grace-days
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.PurchaseGraceDaysRequest true "Purchase request"
// @Success 200 {object} response.SuccessResponse{data=dto.GraceDayResultResponse}
// @Router /grace-days/purchase [post]
func (h *GraceDayHandler) Purchase(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.PurchaseGraceDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	resp, err := h.purchaseCmd.Execute(c.Request.Context(), uid, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}
