package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"commonAssessment/internal/rest"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", authRequired)
	reco.POST("", handler.Recommend)
	reco.POST("/explain", handler.Explain)

	clients := api.Group("/clients", authRequired)
	clients.GET("/:id/recommendations", handler.RecommendForClient)
	clients.GET("/:id/recommendations/history", handler.History)
}

func SetModelRoutes(api *echo.Group, handler *rest.ModelHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	ml := api.Group("/ml", authRequired)
	ml.GET("/models", handler.ListModels)
	ml.POST("/models/reload", handler.ReloadModels, adminOnly)
	ml.GET("/model", handler.CurrentModel)
	ml.PUT("/model", handler.SwitchModel, adminOnly)
}

func SetOpsRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
