package delivery

import (
	"net/http"
	"strconv"

	"loopback-backend/internal/ingestion/usecase"

	"github.com/gin-gonic/gin"
)

// IngestHandler exposes the ingestion trigger surface.
type IngestHandler struct {
	ingestUsecase usecase.IngestUsecase
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(ingestUc usecase.IngestUsecase) *IngestHandler {
	return &IngestHandler{ingestUsecase: ingestUc}
}

// TriggerIngest runs one ingestion sweep
// POST /api/slack/ingest
func (h *IngestHandler) TriggerIngest(c *gin.Context) {
	summary, err := h.ingestUsecase.RunSweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Slack ingestion complete",
		"run_id":   summary.RunID,
		"channels": summary.Channels,
		"messages": summary.Messages,
	})
}

// ListRuns returns recent ingestion runs
// GET /api/runs
func (h *IngestHandler) ListRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.ingestUsecase.ListRecentRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
