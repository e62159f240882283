package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"querydesk.app/engine/internal/domain"
	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/service"
)

const (
	historyTypeMessages = "messages"
	historyTypeActions  = "actions"
)

type ActionHandler struct {
	actions service.ActionService
}

func NewActionHandler(actions service.ActionService) *ActionHandler {
	return &ActionHandler{actions: actions}
}

// Submit handles both actions and messages on POST /query-actions.
func (h *ActionHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.QueryActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		applied := false
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   err.Error(),
			Code:    dto.CodeValidation,
			Applied: &applied,
		})
		return
	}

	var res service.ActionResult
	switch cmd := cmd.(type) {
	case domain.MessageCommand:
		res, err = h.actions.SubmitMessage(ctx, cmd)
	case domain.ActionCommand:
		res, err = h.actions.SubmitAction(ctx, cmd)
	}
	if err != nil {
		respondWriteError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	respondOK(c, status, dto.ActionResponse{
		Applied:  !res.Replayed,
		Replayed: res.Replayed,
		Query:    dto.ToQueryItemResponse(res.Item),
		Entry:    dto.ToThreadEntryResponse(res.Entry),
	})
}

// History returns an item's thread in ascending order. type=messages (the
// default) returns every entry, type=actions only action entries.
func (h *ActionHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	itemID := strings.TrimSpace(c.Query("queryId"))
	if itemID == "" {
		respondBadRequest(c, "queryId is required")
		return
	}

	filter := model.HistoryFilter{ItemID: itemID}
	switch c.DefaultQuery("type", historyTypeMessages) {
	case historyTypeMessages:
	case historyTypeActions:
		filter.ActionsOnly = true
	default:
		respondBadRequest(c, "type must be messages or actions")
		return
	}

	team, ok := teamParam(c)
	if !ok {
		return
	}
	filter.Team = team

	if raw := c.Query("afterSeq"); raw != "" {
		seq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seq < 0 {
			respondBadRequest(c, "afterSeq must be a non-negative integer")
			return
		}
		filter.AfterSeq = seq
	}

	entries, err := h.actions.History(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToThreadEntryResponses(entries))
}
