// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/salviega/sci-backend/internal/handler"
	"github.com/salviega/sci-backend/internal/middleware"
	"github.com/salviega/sci-backend/internal/server"
	"github.com/salviega/sci-backend/internal/service"
)

// New builds the Echo instance with the full middleware stack and all
// routes registered, ready to be handed to server.SetupHTTPServer.
//
// Middleware order matters:
//  1. RequestID runs first so every later stage sees the correlation ID.
//  2. New Relic opens the transaction before the context enhancer reads
//     trace metadata into the request logger.
//  3. The request logger and tracing enhancer observe the handler.
//  4. CORS/Secure/Recover wrap the actual handlers.
func New(s *server.Server, services *service.Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	mw := middleware.NewMiddlewares(s)

	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(middleware.RequestID())
	e.Use(mw.Tracing.NewRelicMiddleware())
	e.Use(mw.ContextEnhancer.EnhanceContext())
	e.Use(mw.Global.RequestLogger())
	e.Use(mw.Tracing.EnhanceTracing())
	e.Use(mw.Global.CORS())
	e.Use(mw.Global.Secure())
	e.Use(mw.Global.Recover())

	handlers := handler.NewHandlers(s, services)

	registerUploadRoutes(e, handlers)
	registerSystemRoutes(e, handlers)

	return e
}
