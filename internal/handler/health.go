package handler

// HealthHandler exposes a "system" endpoint that external systems can
// use to verify the service is alive and its pinning provider is
// reachable.
import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salviega/sci-backend/internal/middleware"
	"github.com/salviega/sci-backend/internal/pinning"
	"github.com/salviega/sci-backend/internal/server"
)

// HealthHandler embeds the base Handler to reuse shared server
// dependencies. This endpoint is not business logic, but embedding
// keeps handler patterns consistent.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app
// dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns system health status and dependency checks.
//
// It returns 200 OK when all checks pass and 503 Service Unavailable
// when the pinning provider check fails.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	providerStart := time.Now()
	providerCheck := map[string]interface{}{
		"provider": h.server.Config.Pinning.Provider,
		"status":   "healthy",
	}

	if checker, ok := h.server.Pinner.(pinning.HealthChecker); ok {
		if err := checker.Healthy(ctx); err != nil {
			providerCheck["status"] = "unhealthy"
			providerCheck["error"] = err.Error()
			isHealthy = false

			logger.Error().Err(err).Msg("pinning provider health check failed")
		}
	}

	providerCheck["response_time"] = time.Since(providerStart).String()
	checks["pinning"] = providerCheck

	if !isHealthy {
		response["status"] = "unhealthy"
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}
