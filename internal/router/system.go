package router

import (
	"github.com/labstack/echo/v4"

	"github.com/salviega/sci-backend/internal/handler"
)

// registerSystemRoutes registers "system" endpoints that are not part
// of business logic:
//  1. Health endpoint
//  2. Docs endpoint (OpenAPI UI)
//  3. Static files endpoint (serves openapi.json and openapi.html)
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Health status endpoint (used by orchestrators/monitors).
	r.GET("/status", h.Health.CheckHealth)

	// Serve all files from ./static at /static/*.
	r.Static("/static", "static")

	// Docs UI endpoint (serves openapi.html).
	r.GET("/api-docs", h.OpenAPI.ServeOpenAPIUI)
}
