package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/blinkit-analytics/backend/internal/assistant"
	"github.com/blinkit-analytics/backend/internal/config"
	"github.com/blinkit-analytics/backend/internal/db"
	"github.com/blinkit-analytics/backend/internal/estimator"
	"github.com/blinkit-analytics/backend/internal/http/handlers"
	"github.com/blinkit-analytics/backend/internal/http/middleware"

	_ "github.com/blinkit-analytics/backend/docs"
)

func Router(cfg config.Config, store *db.Store, est *estimator.Estimator, chat assistant.Assistant, retriever *assistant.Retriever, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:        store,
		Estimator:    est,
		Assistant:    chat,
		Retriever:    retriever,
		Validator:    validator.New(),
		Logger:       logger,
		AdminKey:     cfg.AdminKey,
		RawRowsLimit: cfg.RawRowsLimit,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/options", h.Options)
		api.POST("/estimate", h.Estimate)
		api.GET("/estimates", h.EstimatesList)
		api.GET("/analytics/summary", h.AnalyticsSummary)
		api.GET("/analytics/daily", h.AnalyticsDaily)
		api.GET("/analytics/campaigns", h.AnalyticsCampaigns)
		api.GET("/analytics/sales", h.AnalyticsSales)
		api.GET("/analytics/operations", h.AnalyticsOperations)
		api.GET("/analytics/feedback", h.AnalyticsFeedback)
		api.GET("/analytics/raw", h.AnalyticsRaw)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/import", h.Import)
		admin.POST("/assistant/chat", h.AssistantChat)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
