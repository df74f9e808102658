package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payhook/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorResponseMirrorsMessageAtTopLevel(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponse(c, http.StatusBadRequest, "mode is required")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "mode is required", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestErrorResponseWithErrorMirrorsAppErrorMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponseWithError(c, errors.NewBadGatewayError("payment provider is unavailable"))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "payment provider is unavailable", body["message"])
}
