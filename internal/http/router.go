package http

import (
	"github.com/gin-gonic/gin"

	"github.com/znznow/agreements-backend/internal/http/handlers"
	"github.com/znznow/agreements-backend/internal/http/middleware"
	"github.com/znznow/agreements-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log          *logger.Logger
	Mode         string
	AllowOrigins []string

	Health    *handlers.HealthHandler
	Agreement *handlers.AgreementHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	api := r.Group("/api")
	{
		api.GET("/health", cfg.Health.Check)
		api.GET("/partnership-levels", cfg.Agreement.PartnershipLevels)
		api.GET("/statistics", cfg.Agreement.Statistics)
		api.POST("/submit", cfg.Agreement.Submit)

		agreements := api.Group("/agreements")
		{
			agreements.POST("", cfg.Agreement.Create)
			agreements.GET("", cfg.Agreement.List)
			agreements.GET("/:id", cfg.Agreement.Get)
			agreements.GET("/:id/pdf", cfg.Agreement.ViewPDF)
			agreements.GET("/:id/download", cfg.Agreement.Download)
			agreements.POST("/:id/send-email", cfg.Agreement.SendEmail)
			agreements.GET("/:id/whatsapp-link", cfg.Agreement.WhatsAppLink)
		}
	}

	return r
}
