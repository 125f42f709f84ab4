package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bivex/habitpass/internal/application/command"
	"github.com/bivex/habitpass/internal/application/dto"
	"github.com/bivex/habitpass/internal/application/query"
	"github.com/bivex/habitpass/internal/interfaces/http/response"
)

// HabitHandler handles habits and their completion history
type HabitHandler struct {
	habitsQuery *query.HabitsQuery
	createCmd   *command.CreateHabitCommand
	updateCmd   *command.UpdateHabitCommand
	deleteCmd   *command.DeleteHabitCommand
	markCmd     *command.MarkHabitCommand
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(
	habitsQuery *query.HabitsQuery,
	createCmd *command.CreateHabitCommand,
	updateCmd *command.UpdateHabitCommand,
	deleteCmd *command.DeleteHabitCommand,
	markCmd *command.MarkHabitCommand,
) *HabitHandler {
	return &HabitHandler{
		habitsQuery: habitsQuery,
		createCmd:   createCmd,
		updateCmd:   updateCmd,
		deleteCmd:   deleteCmd,
		markCmd:     markCmd,
	}
}

// List returns the caller's habits
// @Summary List habits
// @Tags habits
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SuccessResponse{data=[]dto.HabitResponse}
// @Router /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.habitsQuery.List(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Create adds a habit
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateHabitRequest true "Habit"
// @Success 201 {object} response.SuccessResponse{data=dto.HabitResponse}
// @Router /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	resp, err := h.createCmd.Execute(c.Request.Context(), uid, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, resp)
}

// Get returns one habit
// @Summary Get a habit
// @Tags habits
// @Produce json
// @Security Bearer
// @Param id path string true "Habit ID"
// @Success 200 {object} response.SuccessResponse{data=dto.HabitResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /habits/{id} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.habitsQuery.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update edits a habit
// @Summary Update a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Habit ID"
// @Param request body dto.UpdateHabitRequest true "Fields to change"
// @Success 200 {object} response.SuccessResponse{data=dto.HabitResponse}
// @Router /habits/{id} [patch]
func (h *HabitHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	resp, err := h.updateCmd.Execute(c.Request.Context(), uid, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete removes a habit
// @Summary Delete a habit
// @Tags habits
// @Security Bearer
// @Param id path string true "Habit ID"
// @Success 204
// @Router /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.deleteCmd.Execute(c.Request.Context(), uid, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

// Complete marks a day as completed
// @Summary Mark a day complete
// @Tags habits
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Habit ID"
// @Param request body dto.MarkHabitRequest false "Day, defaults to today"
// @Success 200 {object} response.SuccessResponse{data=dto.HabitResponse}
// @Router /habits/{id}/complete [post]
func (h *HabitHandler) Complete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.MarkHabitRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	resp, err := h.markCmd.Complete(c.Request.Context(), uid, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Incomplete marks a day as not completed
// @Summary Mark a day incomplete
// @Tags habits
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Habit ID"
// @Param request body dto.MarkHabitRequest false "Day, defaults to today"
// @Success 200 {object} response.SuccessResponse{data=dto.HabitResponse}
// @Router /habits/{id}/incomplete [post]
func (h *HabitHandler) Incomplete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.MarkHabitRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	resp, err := h.markCmd.Incomplete(c.Request.Context(), uid, c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, resp)
}
