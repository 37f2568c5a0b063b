// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// The trace-id middleware is applied globally here so every request,
// including health checks and auth, carries a correlation id.
func RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.TraceID())
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterReservations registers the reservation API under /v1.
// Every route requires a valid access token and shares the Redis
// rate limiter; rdb may be nil, which disables limiting.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string, rdb *redis.Client, rpm int) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RateLimit(rdb, rpm))
	g.POST("", r.Create)
	g.GET("/:id", r.Get)
}
