package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/query"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// AdHandler answers ad placement questions
type AdHandler struct {
	statusQuery *query.AdStatusQuery
	markCmd     *command.MarkAdShownCommand
}

// NewAdHandler creates a new ad handler
func NewAdHandler(statusQuery *query.AdStatusQuery, markCmd *command.MarkAdShownCommand) *AdHandler {
	return &AdHandler{
		statusQuery: statusQuery,
		markCmd:     markCmd,
	}
}

// Interstitial reports whether an interstitial may be shown now
// @Summary Interstitial gate
// @Tags ads
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=dto.AdStatusResponse}
// @Router /ads/interstitial [get]
func (h *AdHandler) Interstitial(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.statusQuery.Interstitial(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// InterstitialShown records that an interstitial was displayed
// @Summary Record an interstitial impression
// @Tags ads
// @Security Bearer
// @Success 204
// @Router /ads/interstitial/shown [post]
func (h *AdHandler) InterstitialShown(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.markCmd.Execute(c.Request.Context(), uid); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

// Banner reports whether a banner should be shown
// @Summary Banner gate
// @Tags ads
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=dto.AdStatusResponse}
// @Router /ads/banner [get]
func (h *AdHandler) Banner(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.statusQuery.Banner(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}
