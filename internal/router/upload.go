package router

import (
	"github.com/labstack/echo/v4"

	"github.com/salviega/sci-backend/internal/handler"
)

// registerUploadRoutes registers the pin-relay endpoints.
//
// Route names match the public API contract: a JSON object posted to
// /uploadJson or a multipart file posted to /uploadFile is forwarded to
// the pinning provider, and the resulting CID is returned as the
// response body.
func registerUploadRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/uploadJson", h.Upload.UploadJSON)
	r.POST("/uploadFile", h.Upload.UploadFile)
}
