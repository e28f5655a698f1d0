package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trame-planner/internal/progress"
	"trame-planner/internal/service"
)

type APIError struct {
	Message string               `json:"message"`
	Code    string               `json:"code,omitempty"`
	Fields  []service.FieldError `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	apiErr := APIError{Message: msg, Code: code}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		apiErr.Fields = verr.Fields
	}
	c.JSON(status, ErrorEnvelope{Error: apiErr})
}

// respondServiceError maps service errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, progress.ErrAlreadyRunning):
		respondError(c, http.StatusConflict, "already_running", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
