package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"commonAssessment/business/recommend"
	"commonAssessment/domain"
	"commonAssessment/pkg/metrics"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		history  HistoryRepository
		timeout  time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, record map[string]any) (domain.RecommendationResult, error)
		RecommendForClient(ctx context.Context, clientID uint) (domain.RecommendationResult, error)
		Explain(ctx context.Context, record map[string]any) (domain.RecommendationExplanation, error)
	}

	HistoryRepository interface {
		ListByClient(ctx context.Context, clientID uint, limit int) ([]domain.RecommendationLog, error)
	}

	RecommendRequest struct {
		Attributes map[string]any `json:"attributes" validate:"required"`
	}

	HistoryQuery struct {
		Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
	}
)

const defaultHandlerTimeout = 10 * time.Second

// NewRecommendationHandler builds the handler. history may be nil when no
// result store is configured.
func NewRecommendationHandler(svc RecommendationService, history HistoryRepository, timeout time.Duration) *RecommendationHandler {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		history:  history,
		timeout:  timeout,
	}
}

// POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	defer observe("recommend", time.Now())

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "recommend", http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return h.fail(c, "recommend", http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.service.Recommend(ctx, req.Attributes)
	if err != nil {
		count("recommend", err)
		return writeServiceError(c, err)
	}

	count("recommend", nil)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/recommendations/explain
func (h *RecommendationHandler) Explain(c echo.Context) error {
	defer observe("explain", time.Now())

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, "explain", http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return h.fail(c, "explain", http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	exp, err := h.service.Explain(ctx, req.Attributes)
	if err != nil {
		count("explain", err)
		return writeServiceError(c, err)
	}

	count("explain", nil)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(exp))
}

// GET /api/v1/clients/:id/recommendations
func (h *RecommendationHandler) RecommendForClient(c echo.Context) error {
	defer observe("client", time.Now())

	clientID, err := parseID(c.Param("id"))
	if err != nil {
		return h.fail(c, "client", http.StatusBadRequest, "invalid client id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.service.RecommendForClient(ctx, clientID)
	if err != nil {
		count("client", err)
		return writeServiceError(c, err)
	}

	count("client", nil)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/clients/:id/recommendations/history?limit=20
func (h *RecommendationHandler) History(c echo.Context) error {
	if h.history == nil {
		return c.JSON(http.StatusNotImplemented, ResponseError{Message: "recommendation history is not enabled"})
	}

	clientID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid client id"})
	}

	var q HistoryQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	logs, err := h.history.ListByClient(ctx, clientID, q.Limit)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(logs))
}

func (h *RecommendationHandler) fail(c echo.Context, route string, status int, msg string) error {
	metrics.RecommendRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	return c.JSON(status, ResponseError{Message: msg})
}

func observe(route string, start time.Time) {
	metrics.RecommendLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func count(route string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecommendRequests.WithLabelValues(route, status).Inc()
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrBadRequest
	}
	return uint(id), nil
}

func traceID(c echo.Context) string {
	return recommend.TraceIDFromContext(c.Request().Context())
}
