package server

import (
	"net/http"

	"github.com/ewill123/nec-callcenter/internal/config"
	"github.com/ewill123/nec-callcenter/internal/handler"
	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/limiter"
	"github.com/ewill123/nec-callcenter/internal/middleware"
	"github.com/ewill123/nec-callcenter/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Config  *config.Config
	Service *incident.Service
	// Limiter is nil when redis is not configured; requests are then not limited.
	Limiter middleware.RateChecker
	Logger  *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	incidentHandler := handler.NewIncidentHandler(d.Service, validator.New(), logger)
	dashboardHandler := handler.NewDashboardHandler(d.Service, cfg.PageSize, logger)
	exportHandler := handler.NewExportHandler(d.Service, logger)

	submitLimit := middleware.RateLimit(d.Limiter, limiter.ActionSubmit, logger)
	updateLimit := middleware.RateLimit(d.Limiter, limiter.ActionUpdate, logger)

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(),
		middleware.CORS(cfg.CORSOrigin),
		middleware.RouteGate(middleware.GateConfig{
			Cookie:   cfg.GateCookie,
			Prefix:   cfg.GatePrefix,
			Redirect: cfg.GateRedirect,
		}),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Form
		api.POST("/incidents", submitLimit, incidentHandler.Submit)
		api.GET("/incidents", incidentHandler.List)
		api.POST("/reports", submitLimit, incidentHandler.Submit)
		api.GET("/reports/:id", incidentHandler.Get)
		api.PATCH("/reports/:id", updateLimit, incidentHandler.Update)

		// Dashboard
		api.GET("/submissions", incidentHandler.Submissions)
		api.GET("/dashboard", dashboardHandler.Page)
		api.GET("/dashboard/dates/:date", dashboardHandler.Date)
		api.GET("/dashboard/stats", dashboardHandler.Stats)

		// Export
		api.GET("/export", exportHandler.Export)
	}

	admin := r.Group("/admin")
	{
		admin.GET("/reports/:id/print", exportHandler.PrintReport)
		admin.GET("/dates/:date/print", exportHandler.PrintDate)
	}

	return r
}
