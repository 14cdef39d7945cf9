package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/salviega/sci-backend/internal/errs"
	"github.com/salviega/sci-backend/internal/server"
	"github.com/salviega/sci-backend/internal/service"
	"github.com/salviega/sci-backend/internal/validation"
)

// UploadHandler exposes the two pin-relay endpoints.
//
// Both endpoints are stateless: each request's data (decoded body or
// spooled temp file) is owned exclusively by that request and discarded
// once the pin attempt completes. The only output retained is the CID
// returned to the caller.
type UploadHandler struct {
	Handler
	services *service.Services
}

// NewUploadHandler constructs an UploadHandler with access to shared
// app dependencies and the pin dispatch service.
func NewUploadHandler(s *server.Server, services *service.Services) *UploadHandler {
	return &UploadHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// UploadJSON handles POST /uploadJson.
//
// The request body must be a JSON object (a mapping, not a scalar,
// array, or null). Anything else is rejected with 400 and the list of
// validation errors before any upstream call is made. On success the
// response body is the bare CID string.
func (h *UploadHandler) UploadJSON(c echo.Context) error {
	scope := beginRequest(c, "upload_json")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return scope.end(errs.NewBadRequestError("could not read request body", false, nil, nil))
	}

	payload, fieldErrors := validation.ValidateJSONObject(body)
	if fieldErrors != nil {
		return scope.end(errs.NewBadRequestError("Validation failed", true, nil, fieldErrors))
	}

	cid, err := h.services.Pin.PinJSON(c.Request().Context(), &scope.logger, payload)
	if err != nil {
		return scope.end(err)
	}

	return scope.end(c.String(http.StatusOK, cid))
}

// UploadFile handles POST /uploadFile.
//
// It expects a multipart form with a single file under the "file"
// field; a missing file is a 400. The upload is spooled to a temp file
// that is removed on every exit path, whether the pin attempt succeeds
// or fails. On success the response body is the bare CID string.
func (h *UploadHandler) UploadFile(c echo.Context) error {
	scope := beginRequest(c, "upload_file")

	fileHeader, err := validation.ValidateFileUpload(c)
	if err != nil {
		return scope.end(err)
	}

	path, err := spoolUpload(fileHeader)
	if err != nil {
		scope.logger.Error().Err(err).Msg("failed to spool upload to temp file")
		return scope.end(errs.NewInternalError(errs.GenericServerErrorMessage, false))
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			scope.logger.Warn().Err(err).Str("path", path).Msg("failed to remove temp upload")
		}
	}()

	cid, err := h.services.Pin.PinFile(c.Request().Context(), &scope.logger, fileHeader.Filename, path)
	if err != nil {
		return scope.end(err)
	}

	return scope.end(c.String(http.StatusOK, cid))
}

// spoolUpload copies the multipart upload to a temp file and returns
// its path. The caller owns the file and must remove it.
func spoolUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open multipart file: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "sci-upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return dst.Name(), nil
}
