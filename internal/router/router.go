package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/dkoroteev/auth-service/internal/handler"
	"github.com/dkoroteev/auth-service/internal/middleware"
)

// RegisterRoutes wires the full HTTP surface. The request gate is
// installed on the whole instance: it classifies every request itself, so
// the auth endpoints and the health probe pass through untouched while
// everything else requires a valid bearer token.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, jwtSecret string) {
	e.Use(middleware.Authenticate(jwtSecret))

	// Public surface.
	e.GET("/api/health", handler.Health)

	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	// Protected surface. The gate has authenticated these requests;
	// role-based authorization happens inside the handlers.
	e.GET("/api/users", u.List)
	e.GET("/api/users/:id", u.Get)
	e.POST("/api/users", u.Create)
}
