package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/service"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, dto.OK(data))
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg, Code: dto.CodeValidation})
}

// statusFor maps a service error kind to its HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, dto.CodeValidation
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, dto.CodeUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, dto.CodeNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, dto.CodeConflict
	case errors.Is(err, service.ErrStorage):
		return http.StatusServiceUnavailable, dto.CodeStorage
	default:
		return http.StatusInternalServerError, dto.CodeInternal
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.JSON(status, errorBody(c, status, code, err))
}

// respondWriteError reports a failed submission. Nothing was applied unless the
// store failed, in which case the outcome is unknown and the caller must re-fetch.
func respondWriteError(c *gin.Context, err error) {
	status, code := statusFor(err)
	body := errorBody(c, status, code, err)
	if code == dto.CodeStorage || code == dto.CodeInternal {
		body.Outcome = dto.OutcomeUnknown
	} else {
		applied := false
		body.Applied = &applied
	}
	c.JSON(status, body)
}

func errorBody(c *gin.Context, status int, code string, err error) dto.ErrorResponse {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err, "code", code)
		if code == dto.CodeInternal {
			msg = "internal server error"
		}
	}
	return dto.ErrorResponse{Error: msg, Code: code}
}
