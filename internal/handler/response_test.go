package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashwinyue/edu-ai/internal/service/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthenticated", types.ErrUnauthenticated, http.StatusUnauthorized, "user not authenticated"},
		{"not found wrapped", fmt.Errorf("lookup: %w", types.ErrNotFound), http.StatusNotFound, "file not found"},
		{"validation", types.NewValidationError("file a.pdf is larger than 50 MiB"), http.StatusBadRequest, "file a.pdf is larger than 50 MiB"},
		{"unprocessable", &types.ValidationError{Message: "no extractable text", Status: http.StatusUnprocessableEntity}, http.StatusUnprocessableEntity, "no extractable text"},
		{"limit", &types.LimitExceededError{Limit: 3}, http.StatusConflict, "file limit of 3 reached"},
		{"upstream status", &types.UpstreamError{Op: "model", Status: 503, Message: "model API request failed"}, http.StatusServiceUnavailable, "model API request failed"},
		{"upstream default", types.NewUpstreamError("storage", "failed to upload file a.pdf", errors.New("x")), http.StatusInternalServerError, "failed to upload file a.pdf"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("secret driver detail"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "internal server error", body["message"])
	assert.Equal(t, "internal server error", body["error"])
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
	assert.NotContains(t, w.Body.String(), "secret driver detail")
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, "file with name a.pdf deleted", nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "error")
}
