package router

import (
	"github.com/gin-gonic/gin"

	"querydesk.app/engine/internal/http/handler"
)

func QueryRouter(groups *gin.RouterGroup, items *gin.RouterGroup, h *handler.QueryHandler) {
	groups.POST("", h.Create)
	groups.GET("", h.List)
	groups.GET("/:groupId", h.GetGroup)

	items.GET("/:itemId", h.GetItem)
}
