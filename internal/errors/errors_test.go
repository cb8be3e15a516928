package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestInvalidTableError_CarriesMissingColumns(t *testing.T) {
	err := InvalidTableError([]string{"prior_year", "growth_pct"})

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "INVALID_TABLE", err.ErrorCode)

	details, ok := err.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"prior_year", "growth_pct"}, details["missing_columns"])
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("window", "Window must be between 2 and 12 months")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "window", details.Field)
}

func TestErrorResponse_RenderSetsStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, render.Render(rec, req, NewErrorResponse(ErrInvalidTable)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Success bool      `json:"success"`
		Error   *APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INVALID_TABLE", body.Error.ErrorCode)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrRateLimit)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Success bool      `json:"success"`
		Error   *APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error.ErrorCode)
}
