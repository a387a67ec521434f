package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"commonAssessment/business/model"
	"commonAssessment/domain"
	"commonAssessment/pkg/logger"
)

type (
	ModelHandler struct {
		validate *validator.Validate
		registry ModelRegistry
		loader   ModelReloader
	}

	ModelRegistry interface {
		Current() (model.Predictor, domain.ModelInfo, error)
		Models() []domain.ModelInfo
		Switch(name string) (domain.ModelInfo, error)
	}

	ModelReloader interface {
		Reload(ctx context.Context) ([]domain.ModelInfo, error)
	}

	SwitchModelRequest struct {
		ModelName string `json:"model_name" validate:"required"`
	}

	ModelList struct {
		Current string             `json:"current,omitempty"`
		Models  []domain.ModelInfo `json:"models"`
	}

	ReloadResult struct {
		Current string             `json:"current"`
		Loaded  []domain.ModelInfo `json:"loaded"`
	}
)

// NewModelHandler builds the model admin handler. loader may be nil, in which
// case the reload route answers 501.
func NewModelHandler(reg ModelRegistry, loader ModelReloader) *ModelHandler {
	return &ModelHandler{
		validate: validator.New(),
		registry: reg,
		loader:   loader,
	}
}

// GET /api/v1/ml/models
func (h *ModelHandler) ListModels(c echo.Context) error {
	out := ModelList{Models: h.registry.Models()}
	if _, info, err := h.registry.Current(); err == nil {
		out.Current = info.Name
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(out))
}

// GET /api/v1/ml/model
func (h *ModelHandler) CurrentModel(c echo.Context) error {
	_, info, err := h.registry.Current()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(info))
}

// PUT /api/v1/ml/model
// body: {"model_name": "forest-v3"}
func (h *ModelHandler) SwitchModel(c echo.Context) error {
	var req SwitchModelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	info, err := h.registry.Switch(req.ModelName)
	if err != nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	}

	logger.Info("Model switched", "model", info.Name, "version", info.Version, "by", c.Get("user_id"))
	return c.JSON(http.StatusOK, fres.Response.StatusOK(info))
}

// POST /api/v1/ml/models/reload
func (h *ModelHandler) ReloadModels(c echo.Context) error {
	if h.loader == nil {
		return c.JSON(http.StatusNotImplemented, ResponseError{Message: "model reload is not configured"})
	}

	loaded, err := h.loader.Reload(c.Request().Context())
	if err != nil {
		var merr *domain.ModelUnavailableError
		if errors.As(err, &merr) {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: merr.Error()})
		}
		logger.Error("Model reload failed", "error", err, "trace_id", traceID(c))
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "model reload failed"})
	}

	out := ReloadResult{Loaded: loaded}
	if _, info, err := h.registry.Current(); err == nil {
		out.Current = info.Name
	}
	logger.Info("Models reloaded", "count", len(loaded), "current", out.Current, "by", c.Get("user_id"))
	return c.JSON(http.StatusOK, fres.Response.StatusOK(out))
}
