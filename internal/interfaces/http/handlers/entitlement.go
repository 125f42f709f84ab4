package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bivex/habitpass/internal/application/query"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// EntitlementHandler exposes trial and feature gating
type EntitlementHandler struct {
	entitlementsQuery *query.GetEntitlementsQuery
	featureQuery      *query.CheckFeatureQuery
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(entitlementsQuery *query.GetEntitlementsQuery, featureQuery *query.CheckFeatureQuery) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementsQuery: entitlementsQuery,
		featureQuery:      featureQuery,
	}
}

// GetEntitlements returns trial status, limits and ad flags
// @Summary Get entitlements
// @Tags entitlements
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=dto.EntitlementsResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /entitlements [get]
func (h *EntitlementHandler) GetEntitlements(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.entitlementsQuery.Execute(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// CheckFeature reports whether one feature is unlocked
// @Summary Check a feature
// @Tags entitlements
// @Produce json
// @Security Bearer
// @Param feature path string true "Feature name"
// @Success 200 {object} response.SuccessResponse{data=dto.FeatureAccessResponse}
// @Router /entitlements/features/{feature} [get]
func (h *EntitlementHandler) CheckFeature(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.featureQuery.Execute(c.Request.Context(), uid, c.Param("feature"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}
