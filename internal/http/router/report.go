package router

import (
	"github.com/gin-gonic/gin"

	"querydesk.app/engine/internal/http/handler"
)

func ReportRouter(rg *gin.RouterGroup, h *handler.ReportHandler) {
	rg.GET("/daily", h.Daily)
}

func MetaRouter(rg *gin.RouterGroup, h *handler.MetaHandler) {
	rg.GET("/schemas/query-actions", h.ActionSchema)
	rg.GET("/sync", h.Sync)
}
