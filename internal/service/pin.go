package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/salviega/sci-backend/internal/errs"
	"github.com/salviega/sci-backend/internal/pinning"
	"github.com/salviega/sci-backend/internal/server"
)

// PinService forwards validated content to the pinning provider and
// normalizes the outcome.
//
// It applies the configured upload timeout to every provider call and
// translates any upstream failure into a generic 500 for the client
// while logging the real cause.
type PinService struct {
	server *server.Server
}

// NewPinService constructs a PinService with access to shared app
// dependencies.
func NewPinService(s *server.Server) *PinService {
	return &PinService{
		server: s,
	}
}

// PinJSON pins an already-validated JSON object and returns its CID.
//
// The metadata label comes from config (pinning.json_name) rather than
// being derived from the payload, since an arbitrary JSON object has no
// natural filename.
func (s *PinService) PinJSON(ctx context.Context, logger *zerolog.Logger, payload map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.server.Config.Pinning.UploadTimeout)
	defer cancel()

	cid, err := s.server.Pinner.PinJSON(ctx, s.server.Config.Pinning.JSONName, payload)
	if err != nil {
		return "", s.reportPinFailure(logger, "pin_json", err)
	}

	logger.Info().
		Str("cid", cid).
		Msg("json pinned")

	return cid, nil
}

// PinFile pins the temp file at path under its original upload
// filename and returns its CID. The caller keeps ownership of the temp
// file and is responsible for removing it.
func (s *PinService) PinFile(ctx context.Context, logger *zerolog.Logger, originalFilename string, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.server.Config.Pinning.UploadTimeout)
	defer cancel()

	cid, err := s.server.Pinner.PinFile(ctx, originalFilename, path)
	if err != nil {
		return "", s.reportPinFailure(logger, "pin_file", err)
	}

	logger.Info().
		Str("cid", cid).
		Str("filename", originalFilename).
		Msg("file pinned")

	return cid, nil
}

// reportPinFailure logs the underlying provider error with its
// classification and returns the sanitized client-facing error.
func (s *PinService) reportPinFailure(logger *zerolog.Logger, operation string, err error) error {
	event := logger.Error().Err(err).Str("operation", operation)

	var pinErr *pinning.PinError
	if errors.As(err, &pinErr) {
		event = event.Str("failure_kind", string(pinErr.Kind))
	}

	event.Msg("upstream pin call failed")

	return errs.NewInternalError(errs.GenericServerErrorMessage, false)
}
