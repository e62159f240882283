package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/service"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Daily(c *gin.Context) {
	var filter model.ReportFilter

	team, ok := teamParam(c)
	if !ok {
		return
	}
	filter.Team = team

	var err error
	if filter.From, err = dayParam(c, "from"); err != nil {
		respondBadRequest(c, "from must be a date (YYYY-MM-DD)")
		return
	}
	if filter.To, err = dayParam(c, "to"); err != nil {
		respondBadRequest(c, "to must be a date (YYYY-MM-DD)")
		return
	}

	rows, err := h.reports.Daily(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToDailyActionResponses(rows))
}

func dayParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dto.DayLayout, raw)
}
