package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/config"
	"github.com/nurpe/office-admin/internal/http/middleware"
	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/session"
)

func NewRouter(handler *Handler, registry *session.Registry, m *metrics.Collector, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))
	router.SetHTMLTemplate(templates())
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handler.Register(router, middleware.Session(registry, cfg.IsProduction()), uiCORS(cfg.CORS.AllowedOrigins))
	return router
}

// uiCORS opens the JSON endpoints to the configured origins only; with none
// configured they stay same-origin.
func uiCORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
