package main

import (
	"log"

	api "loopback-backend/cmd/api"
	classificationdomain "loopback-backend/internal/classification/domain"
	classificationRepo "loopback-backend/internal/classification/repository"
	classificationUsecase "loopback-backend/internal/classification/usecase"
	ingestiondomain "loopback-backend/internal/ingestion/domain"
	ingestionRepo "loopback-backend/internal/ingestion/repository"
	"loopback-backend/internal/ingestion/scheduler"
	ingestionUsecase "loopback-backend/internal/ingestion/usecase"
	statsRepo "loopback-backend/internal/stats/repository"
	statsUsecase "loopback-backend/internal/stats/usecase"
	"loopback-backend/pkg/ai"
	"loopback-backend/pkg/config"
	"loopback-backend/pkg/database"
	"loopback-backend/pkg/slack"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.SlackBotToken == "" {
		log.Println("[WARN] SLACK_BOT_TOKEN not set, ingestion will fail until configured")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&ingestiondomain.Channel{},
		&ingestiondomain.Message{},
		&ingestiondomain.SlackUser{},
		&ingestiondomain.IngestRun{},
		&classificationdomain.MessageTag{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	channelRepository := ingestionRepo.NewChannelRepository(db)
	messageRepository := ingestionRepo.NewMessageRepository(db)
	userRepository := ingestionRepo.NewUserRepository(db)
	runRepository := ingestionRepo.NewRunRepository(db)
	tagRepository := classificationRepo.NewTagRepository(db)
	statsRepository := statsRepo.NewStatsRepository(db)

	// Slack provider with shared rate limiting
	slackClient := slack.NewClient(cfg.SlackBotToken, cfg.SlackAPIBase, cfg.SlackRateLimit)

	// AI classifier
	classifier, err := ai.NewClassifierService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize AI classifier: %v", err)
	} else {
		log.Printf("AI classifier initialized with provider: %s", cfg.AIProvider)
	}

	// Initialize use cases (dependency injection)
	ingestUc := ingestionUsecase.NewIngestUsecase(channelRepository, messageRepository, userRepository, runRepository, slackClient, cfg.IngestWorkers)
	taggerUc := classificationUsecase.NewTaggerUsecase(tagRepository, classifier)
	statsUc := statsUsecase.NewStatsUsecase(statsRepository, userRepository)

	// Optional periodic ingestion
	ingestScheduler := scheduler.NewIngestScheduler(ingestUc, taggerUc, cfg.IngestInterval, cfg.TagBatchSize)
	ingestScheduler.Start()

	// Initialize HTTP handler
	handler := api.NewHandler(ingestUc, taggerUc, statsUc, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
