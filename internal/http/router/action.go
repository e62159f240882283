package router

import (
	"github.com/gin-gonic/gin"

	"querydesk.app/engine/internal/http/handler"
)

func ActionRouter(rg *gin.RouterGroup, h *handler.ActionHandler) {
	rg.POST("", h.Submit)
	rg.GET("", h.History)
}
