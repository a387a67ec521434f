package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"commonAssessment/domain"
	"commonAssessment/pkg/logger"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type validationDetails struct {
	Missing []string          `json:"missing,omitempty"`
	Invalid map[string]string `json:"invalid,omitempty"`
}

// writeServiceError maps engine errors onto HTTP statuses.
func writeServiceError(c echo.Context, err error) error {
	var (
		verr *domain.ValidationError
		merr *domain.ModelUnavailableError
		perr *domain.PredictionError
	)

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, ResponseError{
			Message: "invalid client record",
			Details: validationDetails{Missing: verr.Missing, Invalid: verr.Invalid},
		})
	case errors.Is(err, domain.ErrClientNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: "client not found"})
	case errors.As(err, &merr):
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: merr.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, ResponseError{Message: "recommendation timed out"})
	case errors.As(err, &perr):
		logger.Error("Prediction failed", "error", err, "trace_id", traceID(c))
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "prediction failed"})
	default:
		logger.Error("Recommendation failed", "error", err, "trace_id", traceID(c))
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "internal server error"})
	}
}
