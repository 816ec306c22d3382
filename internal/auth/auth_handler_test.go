package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-empms/internal/auth"
	autherrors "go-empms/internal/auth/errors"
	"go-empms/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeAuthService struct {
	loginFn        func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error)
	refreshTokenFn func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error)
	logoutFn       func(ctx context.Context, jti string, expiresAt time.Time) error
	getMeFn        func(ctx context.Context, userID string) (*auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
	return f.loginFn(ctx, email, password)
}
func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
	return f.refreshTokenFn(ctx, refreshToken)
}
func (f *fakeAuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	return f.logoutFn(ctx, jti, expiresAt)
}
func (f *fakeAuthService) GetMe(ctx context.Context, userID string) (*auth.AuthResponse, error) {
	return f.getMeFn(ctx, userID)
}

func cookieNames(res *http.Response) []string {
	names := make([]string, 0, 2)
	for _, cookie := range res.Cookies() {
		names = append(names, cookie.Name)
	}
	return names
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success sets both cookies", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "dana@example.com", email)
				return "access-token", "refresh-token", auth.AuthResponse{
					ID:    uuid.New().String(),
					EmpID: "EMP-000001",
					Email: email,
					Role:  "employee",
				}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"email":"dana@example.com","password":"s3cret"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), "access-token")
		assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, cookieNames(w.Result()))
	})

	t.Run("negative bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				return "", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"email":"dana@example.com","password":"wrong"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("negative missing email", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"x"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("success reads body when cookie absent", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshTokenFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "the-refresh-token", refreshToken)
				return "new-access", "new-refresh", auth.AuthResponse{Role: "employee"}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"refresh_token":"the-refresh-token"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.RefreshToken(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success prefers cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshTokenFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "cookie-token", refreshToken)
				return "new-access", "new-refresh", auth.AuthResponse{}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		c.Request.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-token"})

		h.RefreshToken(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative missing token entirely", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)

		h.RefreshToken(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("success revokes with token expiry and clears cookies", func(t *testing.T) {
		exp := time.Now().Add(42 * time.Minute).Unix()

		svc := &fakeAuthService{
			logoutFn: func(ctx context.Context, jti string, expiresAt time.Time) error {
				assert.Equal(t, "the-jti", jti)
				assert.Equal(t, exp, expiresAt.Unix())
				return nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		c.Set("jti", "the-jti")
		c.Set("token_exp", exp)

		h.Logout(c)

		assert.Equal(t, http.StatusOK, w.Code)
		for _, cookie := range w.Result().Cookies() {
			assert.Equal(t, -1, cookie.MaxAge)
			assert.Empty(t, cookie.Value)
		}
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userID := uuid.New().String()
		svc := &fakeAuthService{
			getMeFn: func(ctx context.Context, uid string) (*auth.AuthResponse, error) {
				assert.Equal(t, userID, uid)
				return &auth.AuthResponse{ID: uid, EmpID: "EMP-000001", Name: "Dana Field"}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set("user_id", userID)

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Contains(t, string(env.Data), "EMP-000001")
	})

	t.Run("negative missing identity", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
