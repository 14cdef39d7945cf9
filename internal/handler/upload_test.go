package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salviega/sci-backend/internal/config"
	"github.com/salviega/sci-backend/internal/errs"
	"github.com/salviega/sci-backend/internal/pinning"
	"github.com/salviega/sci-backend/internal/router"
	"github.com/salviega/sci-backend/internal/server"
	"github.com/salviega/sci-backend/internal/service"
)

// fakePinner is a deterministic stand-in for the upstream provider. It
// records every call so tests can assert on the forwarded metadata and
// spooled content.
type fakePinner struct {
	mu  sync.Mutex
	cid string
	err error

	jsonNames    []string
	jsonPayloads []map[string]any
	fileNames    []string
	filePaths    []string
	fileContents [][]byte
}

func (f *fakePinner) PinJSON(ctx context.Context, name string, payload map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.jsonNames = append(f.jsonNames, name)
	f.jsonPayloads = append(f.jsonPayloads, payload)

	if f.err != nil {
		return "", f.err
	}
	return f.cid, nil
}

func (f *fakePinner) PinFile(ctx context.Context, name string, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	f.fileNames = append(f.fileNames, name)
	f.filePaths = append(f.filePaths, path)
	f.fileContents = append(f.fileContents, content)

	if f.err != nil {
		return "", f.err
	}
	return f.cid, nil
}

func newTestServer(t *testing.T, pinner pinning.Pinner) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "development"},
		Server: config.ServerConfig{
			Port:               "3000",
			ReadTimeout:        10,
			WriteTimeout:       120,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Pinning: config.PinningConfig{
			Provider:      "pinata",
			PinataJWT:     "test-jwt",
			JSONName:      "upload.json",
			UploadTimeout: 5 * time.Second,
		},
		Observability: config.DefaultObservabilityConfig(),
	}

	logger := zerolog.Nop()
	srv := &server.Server{
		Config: cfg,
		Logger: &logger,
		Pinner: pinner,
	}

	services, err := service.NewService(srv)
	require.NoError(t, err)

	return router.New(srv, services)
}

func decodeErrorEnvelope(t *testing.T, body []byte) errs.HTTPError {
	t.Helper()

	var envelope errs.HTTPError
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestUploadJSON(t *testing.T) {
	t.Run("pins a JSON object and returns the CID", func(t *testing.T) {
		pinner := &fakePinner{cid: "Qm123abc"}
		e := newTestServer(t, pinner)

		req := httptest.NewRequest(http.MethodPost, "/uploadJson", strings.NewReader(`{"name":"John Doe","age":30}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Qm123abc", rec.Body.String())

		require.Len(t, pinner.jsonPayloads, 1)
		assert.Equal(t, "John Doe", pinner.jsonPayloads[0]["name"])
		assert.Equal(t, float64(30), pinner.jsonPayloads[0]["age"])
	})

	t.Run("labels JSON pins with the configured metadata name", func(t *testing.T) {
		pinner := &fakePinner{cid: "QmName"}
		e := newTestServer(t, pinner)

		req := httptest.NewRequest(http.MethodPost, "/uploadJson", strings.NewReader(`{"a":1}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		require.Len(t, pinner.jsonNames, 1)
		assert.Equal(t, "upload.json", pinner.jsonNames[0])
	})

	t.Run("returns the same CID for repeated identical bodies under a deterministic mock", func(t *testing.T) {
		pinner := &fakePinner{cid: "QmStable"}
		e := newTestServer(t, pinner)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/uploadJson", strings.NewReader(`{"x":true}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "QmStable", rec.Body.String())
		}
	})

	t.Run("rejects non-object bodies with a structured error list", func(t *testing.T) {
		cases := map[string]string{
			"array":  `["a","b"]`,
			"scalar": `42`,
			"null":   `null`,
		}

		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				pinner := &fakePinner{cid: "QmNever"}
				e := newTestServer(t, pinner)

				req := httptest.NewRequest(http.MethodPost, "/uploadJson", strings.NewReader(body))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				rec := httptest.NewRecorder()

				e.ServeHTTP(rec, req)

				assert.Equal(t, http.StatusBadRequest, rec.Code)

				envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
				assert.NotEmpty(t, envelope.Errors)

				// No upstream call happens for invalid payloads.
				assert.Empty(t, pinner.jsonPayloads)
			})
		}
	})

	t.Run("collapses upstream failures into a generic 500", func(t *testing.T) {
		pinner := &fakePinner{err: &pinning.PinError{Kind: pinning.KindAuth, Err: assert.AnError}}
		e := newTestServer(t, pinner)

		req := httptest.NewRequest(http.MethodPost, "/uploadJson", strings.NewReader(`{"a":1}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
		assert.Equal(t, "Something broke!", envelope.Message)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func newFileUploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadFile", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestUploadFile(t *testing.T) {
	t.Run("pins an uploaded file and returns the CID", func(t *testing.T) {
		pinner := &fakePinner{cid: "QmFile42"}
		e := newTestServer(t, pinner)

		content := []byte("paper contents")
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, newFileUploadRequest(t, "paper.pdf", content))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "QmFile42", rec.Body.String())

		require.Len(t, pinner.fileNames, 1)
		assert.Equal(t, "paper.pdf", pinner.fileNames[0])
		assert.Equal(t, content, pinner.fileContents[0])
	})

	t.Run("removes the spooled temp file after a successful pin", func(t *testing.T) {
		pinner := &fakePinner{cid: "QmCleanup"}
		e := newTestServer(t, pinner)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, newFileUploadRequest(t, "data.bin", []byte{0x00, 0x01}))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, pinner.filePaths, 1)

		_, err := os.Stat(pinner.filePaths[0])
		assert.True(t, os.IsNotExist(err), "temp file should be removed after the request")
	})

	t.Run("removes the spooled temp file after an upstream failure", func(t *testing.T) {
		pinner := &fakePinner{err: &pinning.PinError{Kind: pinning.KindNetwork, Err: assert.AnError}}
		e := newTestServer(t, pinner)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, newFileUploadRequest(t, "data.bin", []byte("abc")))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Len(t, pinner.filePaths, 1)

		_, err := os.Stat(pinner.filePaths[0])
		assert.True(t, os.IsNotExist(err), "temp file should be removed even when the pin fails")
	})

	t.Run("rejects a request without a file", func(t *testing.T) {
		pinner := &fakePinner{cid: "QmNever"}
		e := newTestServer(t, pinner)

		req := httptest.NewRequest(http.MethodPost, "/uploadFile", nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
		assert.Equal(t, "No file uploaded.", envelope.Message)
		assert.Empty(t, pinner.fileNames)
	})
}

func TestUnknownRoute(t *testing.T) {
	e := newTestServer(t, &fakePinner{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	envelope := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "Route not found", envelope.Message)
}
