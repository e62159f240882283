package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"querydesk.app/engine/internal/http/handler"
	"querydesk.app/engine/internal/service"
)

type RouterConfig struct {
	ListPollInterval   time.Duration
	ThreadPollInterval time.Duration
	MetricsEnabled     bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	QueryRouter(router.Group("/queries"), router.Group("/query-items"), handler.NewQueryHandler(services.Queries()))
	ActionRouter(router.Group("/query-actions"), handler.NewActionHandler(services.Actions()))
	ReportRouter(router.Group("/reports"), handler.NewReportHandler(services.Reports()))

	metaHandler := handler.NewMetaHandler(cfg.ListPollInterval, cfg.ThreadPollInterval)
	MetaRouter(router.Group(""), metaHandler)
}
