package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "go-empms/internal/auth/errors"
	"go-empms/internal/shared/apperror"
	"go-empms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenRevoker is a local interface so this package does not depend on
// the auth module. Anything that answers "has this jti been revoked"
// fits, the production implementation is backed by redis.
type TokenRevoker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware verifies the bearer token, rejects revoked tokens and
// places user_id / role / jti into the gin context. Requests without a
// verified identity never reach a handler.
func AuthMiddleware(revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		jti, _ := claims["jti"].(string)
		if revoker != nil && jti != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), jti)
			if err != nil {
				response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "An unexpected error occurred", nil)
				c.Abort()
				return
			}
			if revoked {
				abortWith(c, autherrors.ErrTokenRevoked)
				return
			}
		}

		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("jti", jti)
		if exp, ok := claims["exp"].(float64); ok {
			c.Set("token_exp", int64(exp))
		}

		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
