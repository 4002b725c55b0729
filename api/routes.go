package api

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/customeros/mailbridge/api/handlers"
	"github.com/customeros/mailbridge/api/middleware"
	"github.com/customeros/mailbridge/internal/logger"
	"github.com/customeros/mailbridge/internal/tracing"
	"github.com/customeros/mailbridge/services"
)

const AppSource = "mailbridge"

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(r *gin.Engine, s *services.Services, log logger.Logger, apiKey string) {
	if s == nil {
		panic("Services cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	providerHandler := handlers.NewProviderHandler(s.Gateway, log)

	r.GET("/health", handlers.HealthCheck)
	r.GET("/status", handlers.Status(s.Cursors))

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  middleware.DefaultAPIKeyHeader,
		ValidAPIKey: apiKey,
	})

	v1 := r.Group("/v1")
	v1.Use(apiKeyMiddleware)
	v1.Use(middleware.CustomContextMiddleware(AppSource))
	v1.Use(middleware.TracingMiddleware())
	{
		messages := v1.Group("/messages")
		{
			messages.GET("", providerHandler.ListMessages())
			messages.POST("/send", providerHandler.SendMessage())
			messages.GET("/:id", providerHandler.GetMessage())
		}

		v1.GET("/threads/:id", providerHandler.GetThread())

		labels := v1.Group("/labels")
		{
			labels.GET("", providerHandler.ListLabels())
			labels.POST("/batch-modify", providerHandler.BatchModifyLabels())
		}

		v1.GET("/profile", providerHandler.GetProfile())
	}
}
