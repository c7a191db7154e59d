package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srab2001/myteacher-sub005/internal/db"
	"github.com/srab2001/myteacher-sub005/internal/handlers"
	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/observability"
	"github.com/srab2001/myteacher-sub005/internal/platform/openai"
	"github.com/srab2001/myteacher-sub005/internal/repos"
	"github.com/srab2001/myteacher-sub005/internal/server"
	"github.com/srab2001/myteacher-sub005/internal/services"
	"github.com/srab2001/myteacher-sub005/internal/utils"
)

const serviceName = "myteacher-content"

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("APP_ENV", "development", log),
	})
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	chunkRepo := repos.NewReferenceChunkRepo(thePG, log)

	// Redis (optional cache)
	var cache *redis.Client
	if addr := utils.GetEnv("REDIS_ADDR", "", log); addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: utils.GetEnv("REDIS_PASSWORD", "", log),
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, running without section cache", "error", err)
			cache = nil
		}
	}

	// Services
	log.Info("Setting up services from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	draftService := services.NewDraftService(thePG, log, chunkRepo, openaiClient, cache)
	comparisonService := services.NewComparisonService(log, openaiClient)

	// Handlers
	log.Info("Setting up handlers from main...")
	draftHandler := handlers.NewDraftHandler(log, draftService)
	comparisonHandler := handlers.NewComparisonHandler(log, comparisonService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ServiceName:       serviceName,
		DraftHandler:      draftHandler,
		ComparisonHandler: comparisonHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
