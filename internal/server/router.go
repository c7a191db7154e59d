package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/srab2001/myteacher-sub005/internal/handlers"
)

type RouterConfig struct {
	ServiceName       string
	DraftHandler      *handlers.DraftHandler
	ComparisonHandler *handlers.ComparisonHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/drafts/field", cfg.DraftHandler.GenerateFieldDraft)
		api.GET("/drafts/sections/:planType", cfg.DraftHandler.AvailableSections)
		api.POST("/comparisons", cfg.ComparisonHandler.Compare)
	}

	return router
}
