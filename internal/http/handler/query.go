package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/service"
)

// defaultSubmitter is recorded when a group is raised without addedBy.
const defaultSubmitter = "operations"

type QueryHandler struct {
	queries service.QueryService
}

func NewQueryHandler(queries service.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

func (h *QueryHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	in := service.CreateGroupInput{
		AppNumber:   req.AppNo,
		SendTo:      req.SendTo,
		SubmittedBy: req.AddedBy,
		Items:       make([]service.NewItem, len(req.Queries)),
	}
	if strings.TrimSpace(in.SubmittedBy) == "" {
		in.SubmittedBy = defaultSubmitter
	}
	for i, q := range req.Queries {
		in.Items[i] = service.NewItem{Text: q.Text, SendTo: q.SendTo}
	}

	group, err := h.queries.CreateGroup(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, dto.ToQueryGroupResponse(group))
}

// List serves both the group list and, with stats=true, the count summary.
func (h *QueryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	team, ok := teamParam(c)
	if !ok {
		return
	}

	if stats, _ := strconv.ParseBool(c.Query("stats")); stats {
		s, err := h.queries.Stats(ctx, team)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, s)
		return
	}

	status, ok := model.ParseStatusFilter(c.Query("status"))
	if !ok {
		respondBadRequest(c, "status must be pending, resolved or all")
		return
	}
	limit, ok := intParam(c, "limit")
	if !ok {
		return
	}
	offset, ok := intParam(c, "offset")
	if !ok {
		return
	}

	groups, err := h.queries.ListGroups(ctx, model.GroupFilter{
		Team:      team,
		Status:    status,
		AppNumber: strings.TrimSpace(c.Query("appNo")),
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToQueryGroupResponses(groups))
}

func (h *QueryHandler) GetGroup(c *gin.Context) {
	team, ok := teamParam(c)
	if !ok {
		return
	}

	group, err := h.queries.GetGroup(c.Request.Context(), c.Param("groupId"), team)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToQueryGroupResponse(group))
}

func (h *QueryHandler) GetItem(c *gin.Context) {
	team, ok := teamParam(c)
	if !ok {
		return
	}

	item, err := h.queries.GetItem(c.Request.Context(), c.Param("itemId"), team)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToQueryItemResponse(item))
}

// teamParam reads the optional team query parameter. An empty team means no
// visibility filter.
func teamParam(c *gin.Context) (model.Team, bool) {
	raw := c.Query("team")
	if raw == "" {
		return "", true
	}
	team, ok := model.ParseTeam(raw)
	if !ok {
		respondBadRequest(c, "team must be sales, credit or operations")
		return "", false
	}
	return team, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondBadRequest(c, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
