package delivery

import (
	"net/http"

	"loopback-backend/internal/stats/usecase"

	"github.com/gin-gonic/gin"
)

// StatsHandler exposes the dashboard read endpoints.
type StatsHandler struct {
	statsUsecase usecase.StatsUsecase
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsUc usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{statsUsecase: statsUc}
}

// GetDashboardStats returns headline numbers
// GET /api/dashboard/stats
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsUsecase.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetOpenLoops returns unresolved items
// GET /api/open-loops?scope=my|team
// Identity comes from the X-User-Email header; session handling itself
// lives outside this service.
func (h *StatsHandler) GetOpenLoops(c *gin.Context) {
	scope := c.DefaultQuery("scope", "my")
	email := c.GetHeader("X-User-Email")

	if scope == "my" && email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	items, err := h.statsUsecase.ListOpenLoops(scope, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetNeedsAttention returns blockers and urgent items
// GET /api/dashboard/needs-attention
func (h *StatsHandler) GetNeedsAttention(c *gin.Context) {
	items, err := h.statsUsecase.NeedsAttention()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
