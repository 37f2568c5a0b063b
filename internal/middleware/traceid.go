package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/trace"
)

// TraceID accepts an inbound X-Trace-Id header (minting a fresh id
// when absent), stores it in the request context for handlers and the
// service core, and echoes it on the response so clients can quote it
// when reporting problems.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(trace.HeaderName)
			if id == "" {
				id = trace.NewID()
			}
			req := c.Request()
			c.SetRequest(req.WithContext(trace.WithID(req.Context(), id)))
			c.Response().Header().Set(trace.HeaderName, id)
			return next(c)
		}
	}
}
