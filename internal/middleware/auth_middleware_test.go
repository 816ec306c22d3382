package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-empms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type fakeRevoker struct {
	revoked map[string]bool
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

type errorEnvelope struct {
	Ok    bool `json:"ok"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func signToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "3f6f04a5-9cde-4e9f-9a40-8c1f4f1a2b11",
		"role":    "employee",
		"jti":     "test-jti",
		"iat":     now.Unix(),
		"exp":     now.Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func setupAuthRouter(revoker middleware.TokenRevoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(revoker), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func requestProtected(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := setupAuthRouter(&fakeRevoker{})

	t.Run("success valid token reaches handler", func(t *testing.T) {
		w := requestProtected(t, router, signToken(t, "test-secret", time.Hour))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "3f6f04a5-9cde-4e9f-9a40-8c1f4f1a2b11", body["user_id"])
		assert.Equal(t, "employee", body["role"])
	})

	t.Run("negative expired token reports expiry", func(t *testing.T) {
		w := requestProtected(t, router, signToken(t, "test-secret", -time.Minute))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var env errorEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Ok)
		assert.Equal(t, "authentication token has expired", env.Error.Message)
	})

	t.Run("negative wrong signature is invalid, not expired", func(t *testing.T) {
		w := requestProtected(t, router, signToken(t, "other-secret", time.Hour))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var env errorEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "invalid authentication token", env.Error.Message)
	})

	t.Run("negative missing token", func(t *testing.T) {
		w := requestProtected(t, router, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var env errorEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "authentication token not found", env.Error.Message)
	})

	t.Run("negative revoked jti", func(t *testing.T) {
		revokedRouter := setupAuthRouter(&fakeRevoker{revoked: map[string]bool{"test-jti": true}})

		w := requestProtected(t, revokedRouter, signToken(t, "test-secret", time.Hour))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var env errorEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "authentication token has been revoked", env.Error.Message)
	})
}
