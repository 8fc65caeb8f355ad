package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucafaro/habitgrid/internal/adapters/handler/http/middleware"
	"github.com/lucafaro/habitgrid/internal/core/services"
)

type SummaryHandler struct {
	svc *services.SummaryService
}

func NewSummaryHandler(svc *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("/:id/summary", h.GetSummary)
		habits.GET("/:id/heatmap", h.GetHeatmap)
	}
}

func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, err := h.svc.GetSummary(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetHeatmap returns the completion days inside a window. Without query
// parameters the window spans roughly the last nine months plus the
// upcoming week, which is what the contribution-grid view renders.
func (h *SummaryHandler) GetHeatmap(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	heatmap, err := h.svc.GetHeatmap(c.Request.Context(), userID, c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, heatmap)
}
