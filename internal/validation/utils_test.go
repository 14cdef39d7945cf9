package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONObject(t *testing.T) {
	t.Run("accepts an object", func(t *testing.T) {
		payload, fieldErrors := ValidateJSONObject([]byte(`{"name":"John Doe","age":30}`))

		require.Nil(t, fieldErrors)
		assert.Equal(t, "John Doe", payload["name"])
		assert.Equal(t, float64(30), payload["age"])
	})

	t.Run("accepts an empty object", func(t *testing.T) {
		payload, fieldErrors := ValidateJSONObject([]byte(`{}`))

		require.Nil(t, fieldErrors)
		assert.Empty(t, payload)
	})

	t.Run("rejects non-objects", func(t *testing.T) {
		cases := map[string]string{
			"array":   `[1,2,3]`,
			"string":  `"hello"`,
			"number":  `42`,
			"boolean": `true`,
			"null":    `null`,
		}

		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				payload, fieldErrors := ValidateJSONObject([]byte(body))

				assert.Nil(t, payload)
				require.Len(t, fieldErrors, 1)
				assert.Equal(t, "body", fieldErrors[0].Field)
			})
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		payload, fieldErrors := ValidateJSONObject([]byte(`{"name":`))

		assert.Nil(t, payload)
		require.Len(t, fieldErrors, 1)
		assert.Equal(t, "must be valid JSON", fieldErrors[0].Error)
	})
}

func TestValidateFileUpload(t *testing.T) {
	e := echo.New()

	t.Run("rejects a request without a file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/uploadFile", strings.NewReader("not a form"))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		fileHeader, err := ValidateFileUpload(c)

		assert.Nil(t, fileHeader)
		require.Error(t, err)
		assert.Equal(t, "No file uploaded.", err.Error())
	})
}
