package delivery

import (
	"net/http"
	"strconv"

	"loopback-backend/internal/classification/usecase"

	"github.com/gin-gonic/gin"
)

// TagHandler exposes the classification trigger surface.
type TagHandler struct {
	taggerUsecase usecase.TaggerUsecase
	batchSize     int
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(taggerUc usecase.TaggerUsecase, batchSize int) *TagHandler {
	return &TagHandler{taggerUsecase: taggerUc, batchSize: batchSize}
}

// TagMessages runs one classification batch
// POST /api/ai/tag-messages
func (h *TagHandler) TagMessages(c *gin.Context) {
	batchSize := h.batchSize
	if v := c.Query("batch_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			batchSize = parsed
		}
	}

	tagged, err := h.taggerUsecase.ClassifyPending(c.Request.Context(), batchSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if tagged == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "no_messages_to_tag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"tagged": tagged,
	})
}
