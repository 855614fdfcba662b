package api

import (
	classificationDelivery "loopback-backend/internal/classification/delivery"
	classificationUsecase "loopback-backend/internal/classification/usecase"
	ingestionDelivery "loopback-backend/internal/ingestion/delivery"
	ingestionUsecase "loopback-backend/internal/ingestion/usecase"
	statsDelivery "loopback-backend/internal/stats/delivery"
	statsUsecase "loopback-backend/internal/stats/usecase"
	"loopback-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ingestHandler *ingestionDelivery.IngestHandler
	tagHandler    *classificationDelivery.TagHandler
	statsHandler  *statsDelivery.StatsHandler
}

func NewHandler(ingestUc ingestionUsecase.IngestUsecase, taggerUc classificationUsecase.TaggerUsecase, statsUc statsUsecase.StatsUsecase, cfg *config.Config) *Handler {
	return &Handler{
		ingestHandler: ingestionDelivery.NewIngestHandler(ingestUc),
		tagHandler:    classificationDelivery.NewTagHandler(taggerUc, cfg.TagBatchSize),
		statsHandler:  statsDelivery.NewStatsHandler(statsUc),
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-Email")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.ingestHandler, h.tagHandler, h.statsHandler)

	return r.Run(addr)
}
