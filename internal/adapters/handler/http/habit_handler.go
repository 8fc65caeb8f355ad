package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucafaro/habitgrid/internal/adapters/handler/http/middleware"
	"github.com/lucafaro/habitgrid/internal/core/domain"
	"github.com/lucafaro/habitgrid/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type updateHabitRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type toggleResponse struct {
	HabitID       string        `json:"habit_id"`
	Date          domain.DayKey `json:"date"`
	Done          bool          `json:"done"`
	CurrentStreak int           `json:"current_streak"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PATCH("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.PATCH("/:id/toggle/:date", h.Toggle)
	}
}

// handleError maps domain errors onto HTTP status codes. Every habit
// endpoint funnels its service errors through here so the mapping stays
// in one place.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNameEmpty),
		errors.Is(err, domain.ErrHabitNameTooLong),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "habit belongs to another user"})
	case errors.Is(err, domain.ErrFutureDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cannot log a completion in the future"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateHabitInput{
		OwnerID: userID,
		Name:    req.Name,
		Color:   req.Color,
	}

	habit, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habit, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateHabitInput{
		Name:  req.Name,
		Color: req.Color,
	}

	habit, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	dateStr := c.Param("date")

	habit, err := h.svc.ToggleCompletion(c.Request.Context(), userID, c.Param("id"), dateStr)
	if err != nil {
		handleError(c, err)
		return
	}

	// The service already validated the date, so this parse cannot fail.
	day, _ := domain.ParseDayKey(dateStr)

	c.JSON(http.StatusOK, toggleResponse{
		HabitID:       habit.ID,
		Date:          day,
		Done:          habit.Completions.Contains(day),
		CurrentStreak: habit.CurrentStreak,
	})
}
