package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"querydesk.app/engine/internal/http/dto"
)

type MetaHandler struct {
	listInterval   time.Duration
	threadInterval time.Duration

	schemaOnce sync.Once
	schema     *jsonschema.Schema
}

func NewMetaHandler(listInterval, threadInterval time.Duration) *MetaHandler {
	return &MetaHandler{listInterval: listInterval, threadInterval: threadInterval}
}

// ActionSchema serves the JSON Schema of the POST /query-actions body.
func (h *MetaHandler) ActionSchema(c *gin.Context) {
	h.schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		h.schema = r.Reflect(&dto.QueryActionRequest{})
		h.schema.Title = "Query action submission"
	})
	c.JSON(http.StatusOK, h.schema)
}

// Sync serves the polling intervals client surfaces should use.
func (h *MetaHandler) Sync(c *gin.Context) {
	respondOK(c, http.StatusOK, dto.SyncResponse{
		ListIntervalSeconds:   int(h.listInterval / time.Second),
		ThreadIntervalSeconds: int(h.threadInterval / time.Second),
	})
}
