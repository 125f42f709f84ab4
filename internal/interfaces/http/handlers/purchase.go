package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/application/query"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// PurchaseHandler handles the catalog and plan purchases
type PurchaseHandler struct {
	plansQuery   *query.ListPlansQuery
	historyQuery *query.PurchaseHistoryQuery
	purchaseCmd  *command.PurchasePlanCommand
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(plansQuery *query.ListPlansQuery, historyQuery *query.PurchaseHistoryQuery, purchaseCmd *command.PurchasePlanCommand) *PurchaseHandler {
	return &PurchaseHandler{
		plansQuery:   plansQuery,
		historyQuery: historyQuery,
		purchaseCmd:  purchaseCmd,
	}
}

// ListPlans returns the catalog with prices adjusted for the caller
// @Summary List plans
// @Tags purchases
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=[]dto.PlanResponse}
// @Router /plans [get]
func (h *PurchaseHandler) ListPlans(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.plansQuery.Execute(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Purchase buys a plan. Purchase failures are a 200 with success false.
// @Summary Purchase a plan
// @Tags purchases
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.PurchaseRequest true "Purchase request"
// @Success 200 {object} response.SuccessResponse{data=dto.PurchaseResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /purchases [post]
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.PurchaseRequest
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

// History lists the caller's purchases
// @Summary Purchase history
// @Tags purchases
// @Produce json
// @Security Bearer
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} response.SuccessResponse{data=[]dto.TransactionResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /purchases [get]
func (h *PurchaseHandler) History(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	resp, err := h.historyQuery.Execute(c.Request.Context(), uid, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}
