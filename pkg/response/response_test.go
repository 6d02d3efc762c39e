package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(RequestIDKey, "rid-1")

	Success(c, 0, map[string]int{"n": 1}, "ok", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got APIResponse[map[string]int]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "rid-1", got.RequestID)
	assert.Equal(t, 1, got.Data["n"])
}

func TestErrorWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error[any](c, 0, "invalid_input", map[string]string{"name": "required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "invalid_input", got["message"])
	assert.NotContains(t, got, "data")
}
