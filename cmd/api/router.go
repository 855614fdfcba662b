package api

import (
	"net/http"

	classificationDelivery "loopback-backend/internal/classification/delivery"
	ingestionDelivery "loopback-backend/internal/ingestion/delivery"
	statsDelivery "loopback-backend/internal/stats/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, ingestHandler *ingestionDelivery.IngestHandler, tagHandler *classificationDelivery.TagHandler, statsHandler *statsDelivery.StatsHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Ingestion trigger surface
		slack := api.Group("/slack")
		{
			slack.POST("/ingest", ingestHandler.TriggerIngest)
		}
		api.GET("/runs", ingestHandler.ListRuns)

		// Classification trigger surface
		ai := api.Group("/ai")
		{
			ai.POST("/tag-messages", tagHandler.TagMessages)
		}

		// Dashboard reads
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/stats", statsHandler.GetDashboardStats)
			dashboard.GET("/needs-attention", statsHandler.GetNeedsAttention)
		}
		api.GET("/open-loops", statsHandler.GetOpenLoops)
	}
}
