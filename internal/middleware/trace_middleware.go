package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"commonAssessment/business/recommend"
)

const HeaderTraceID = "X-Trace-Id"

// TraceID reuses the caller's trace header or mints a new one, echoes it on
// the response and puts it on the request context for the service logs.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderTraceID)
			if id == "" {
				id = uuid.NewString()
			}

			c.Response().Header().Set(HeaderTraceID, id)
			ctx := recommend.WithTraceID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
