// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core
// business logic.
package handler

import (
	"github.com/salviega/sci-backend/internal/server"
	"github.com/salviega/sci-backend/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router
// setup passes one object around instead of many.
type Handlers struct {
	Upload  *UploadHandler  // Upload serves the JSON and file pin-relay endpoints.
	Health  *HealthHandler  // Health serves service health endpoints (liveness/readiness).
	OpenAPI *OpenAPIHandler // OpenAPI serves API documentation (OpenAPI spec / docs UI).
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Upload:  NewUploadHandler(s, services),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
