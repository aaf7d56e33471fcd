package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factura/backend/internal/interfaces/http/dto"
)

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler(nil, "1.2.3")

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	payload, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(payload, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)
}

func TestSystemHandler_ReadyWithoutDatabase(t *testing.T) {
	h := NewSystemHandler(nil, "dev")

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	// No database configured still counts as ready for local runs.
	assert.Equal(t, http.StatusOK, w.Code)
}
