package validation

import (
	"encoding/json"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/salviega/sci-backend/internal/errs"
)

// FileFieldName is the multipart form field the upload endpoint expects.
const FileFieldName = "file"

// noFileUploadedMessage is the exact client-facing message for a
// missing upload.
const noFileUploadedMessage = "No file uploaded."

// ValidateJSONObject succeeds only if body is a JSON object: a mapping,
// not a scalar, array, or null.
//
// On success it returns the decoded object. On failure it returns a
// structured list of validation errors; the caller translates these
// into a 400 response carrying the list verbatim.
func ValidateJSONObject(body []byte) (map[string]any, []errs.FieldError) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, []errs.FieldError{
			{Field: "body", Error: "must be valid JSON"},
		}
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return nil, []errs.FieldError{
			{Field: "body", Error: "must be a JSON object, not a scalar, array, or null"},
		}
	}

	return object, nil
}

// ValidateFileUpload succeeds only if a file was attached under the
// expected multipart field. A missing file yields a 400 with a
// human-readable message; no other inspection is performed.
func ValidateFileUpload(c echo.Context) (*multipart.FileHeader, error) {
	// echo surfaces both "not multipart" and "field absent" as errors
	// here; either way the client attached no usable file.
	fileHeader, err := c.FormFile(FileFieldName)
	if err != nil {
		return nil, errs.NewBadRequestError(noFileUploadedMessage, false, nil, nil)
	}

	return fileHeader, nil
}
