package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/habitkit/habit-tracker-api/internal/errors"
	"github.com/habitkit/habit-tracker-api/internal/middleware"
	"github.com/habitkit/habit-tracker-api/internal/models"
	"github.com/habitkit/habit-tracker-api/internal/services"
	"github.com/habitkit/habit-tracker-api/internal/utils"
)

type HabitHandler struct {
	habitService      *services.HabitService
	suggestionService *services.SuggestionService
}

func NewHabitHandler(habitService *services.HabitService, suggestionService *services.SuggestionService) *HabitHandler {
	return &HabitHandler{
		habitService:      habitService,
		suggestionService: suggestionService,
	}
}

// ListHabits returns the current user's habits, newest first
func (h *HabitHandler) ListHabits(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	habits, err := h.habitService.ListHabits(c.Request.Context(), userID)
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

// GetHabit returns one habit owned by the current user
func (h *HabitHandler) GetHabit(c *gin.Context) {
	userID, habitID, ok := habitRequestIDs(c)
	if !ok {
		return
	}

	habit, err := h.habitService.GetHabit(c.Request.Context(), userID, habitID)
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// CreateHabit creates a new habit
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateHabitRequest struct {
		Name        string               `json:"name" binding:"required"`
		Description *string              `json:"description"`
		Category    models.HabitCategory `json:"category" binding:"required"`
		Unit        *string              `json:"unit"`
		Target      *float64             `json:"target"`
		Color       *string              `json:"color"`
		Type        *string              `json:"type"`
	}

	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Name and category are required")
		return
	}

	habit, err := h.habitService.CreateHabit(c.Request.Context(), userID, services.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		Target:      req.Target,
		Color:       req.Color,
		Type:        req.Type,
	})
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// UpdateHabit updates a habit owned by the current user
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	userID, habitID, ok := habitRequestIDs(c)
	if !ok {
		return
	}

	type UpdateHabitRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Category    *models.HabitCategory `json:"category"`
		Unit        *string               `json:"unit"`
		Target      *float64              `json:"target"`
		Color       *string               `json:"color"`
		Type        *string               `json:"type"`
	}

	var req UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	habit, err := h.habitService.UpdateHabit(c.Request.Context(), userID, habitID, services.UpdateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		Target:      req.Target,
		Color:       req.Color,
		Type:        req.Type,
	})
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// DeleteHabit deletes a habit and its entries
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	userID, habitID, ok := habitRequestIDs(c)
	if !ok {
		return
	}

	if err := h.habitService.DeleteHabit(c.Request.Context(), userID, habitID); err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Habit deleted",
	})
}

// RecordCompletion upserts the completion of a binary habit for a date
func (h *HabitHandler) RecordCompletion(c *gin.Context) {
	userID, habitID, ok := habitRequestIDs(c)
	if !ok {
		return
	}

	type CompletionRequest struct {
		Date      string `json:"date" binding:"required"`
		Completed *bool  `json:"completed" binding:"required"`
	}

	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Date and completed are required")
		return
	}

	entry, err := h.habitService.RecordCompletion(c.Request.Context(), userID, habitID, req.Date, *req.Completed)
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// RecordValue upserts the value of a quantity habit for a date
func (h *HabitHandler) RecordValue(c *gin.Context) {
	userID, habitID, ok := habitRequestIDs(c)
	if !ok {
		return
	}

	type ValueRequest struct {
		Date  string   `json:"date" binding:"required"`
		Value *float64 `json:"value" binding:"required"`
	}

	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Date and value are required")
		return
	}

	entry, err := h.habitService.RecordValue(c.Request.Context(), userID, habitID, req.Date, *req.Value)
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// RecordMood upserts the mood rating of a mood habit for a date
func (h *HabitHandler) RecordMood(c *gin.Context) {
	userID, habitID, ok := habitRequestIDs(c)
	if !ok {
		return
	}

	type MoodRequest struct {
		Date string `json:"date" binding:"required"`
		Mood *int   `json:"mood" binding:"required"`
	}

	var req MoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Date and mood are required")
		return
	}

	entry, err := h.habitService.RecordMood(c.Request.Context(), userID, habitID, req.Date, *req.Mood)
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ListCompletions returns the current user's completion entries
func (h *HabitHandler) ListCompletions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entries, err := h.habitService.ListCompletions(c.Request.Context(), userID, utils.GetPaginationParams(c))
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ListValues returns the current user's value entries
func (h *HabitHandler) ListValues(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entries, err := h.habitService.ListValues(c.Request.Context(), userID, utils.GetPaginationParams(c))
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// ListMoods returns the current user's mood entries
func (h *HabitHandler) ListMoods(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entries, err := h.habitService.ListMoods(c.Request.Context(), userID, utils.GetPaginationParams(c))
	if err != nil {
		respondHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// SuggestHabits asks the AI service for habits that support a goal. Nothing is persisted.
func (h *HabitHandler) SuggestHabits(c *gin.Context) {
	if !h.suggestionService.Enabled() {
		apierrors.ServiceUnavailable(c, "Habit suggestions are not configured")
		return
	}

	type SuggestRequest struct {
		Goal string `json:"goal" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Goal is required")
		return
	}

	suggestions, err := h.suggestionService.SuggestHabits(c.Request.Context(), req.Goal)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habits": suggestions,
	})
}

// habitRequestIDs reads the user and habit IDs set by the auth and habit
// middleware, writing an error response when either is missing.
func habitRequestIDs(c *gin.Context) (uint64, uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}
	habitID, exists := middleware.GetHabitID(c)
	if !exists {
		apierrors.NotFound(c, "Habit not found")
		return 0, 0, false
	}
	return userID, habitID, true
}

func respondHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrHabitNotFound):
		apierrors.NotFound(c, "Habit not found")
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	default:
		respondInternalError(c, err)
	}
}
