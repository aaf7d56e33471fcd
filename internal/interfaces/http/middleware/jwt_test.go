package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/infrastructure/auth"
	"github.com/factura/backend/internal/infrastructure/config"
)

func newJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		AccessTokenExpiration: time.Hour,
		Issuer:                "factura-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, plan billing.Plan) (string, *auth.Claims) {
	t.Helper()
	token, err := svc.GenerateToken(auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "owner@acme.ro",
		Plan:     plan,
	})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	return token.AccessToken, claims
}

func jwtTestRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": GetJWTTenantID(c),
			"plan":      GetJWTPlan(c).String(),
		})
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestJWTAuth(t *testing.T) {
	svc := newJWTService(t)

	t.Run("missing header rejected", func(t *testing.T) {
		r := jwtTestRouter(JWTAuth(svc))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		r := jwtTestRouter(JWTAuth(svc))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("valid token exposes claims", func(t *testing.T) {
		token, claims := issueToken(t, svc, billing.PlanPro)

		r := jwtTestRouter(JWTAuth(svc))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, claims.TenantID, body["tenant_id"])
		assert.Equal(t, "PRO", body["plan"])
	})

	t.Run("skip path passes without token", func(t *testing.T) {
		r := jwtTestRouter(JWTAuth(svc))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		token, claims := issueToken(t, svc, billing.PlanFree)

		revocation := auth.NewInMemoryTokenRevocationList()
		require.NoError(t, revocation.Revoke(context.Background(), claims.ID, time.Hour))

		cfg := DefaultJWTConfig(svc)
		cfg.RevocationList = revocation
		r := jwtTestRouter(JWTAuthWithConfig(cfg))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_REVOKED")
	})
}

func TestGetJWTPlan_Fallback(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, billing.PlanFree, GetJWTPlan(c))

	c.Set(JWTPlanKey, "STARTER")
	assert.Equal(t, billing.PlanStarter, GetJWTPlan(c))

	c.Set(JWTPlanKey, "NONSENSE")
	assert.Equal(t, billing.PlanFree, GetJWTPlan(c))
}
