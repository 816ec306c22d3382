package middleware

import (
	autherrors "go-empms/internal/auth/errors"
	"go-empms/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireCapability gates a route behind an explicit authorization
// decision. The role comes from the verified token, never from request
// input, so this runs after AuthMiddleware.
func RequireCapability(guard rbac.Guard, resource, action string) gin.HandlerFunc {
	logger := zap.L().Named("middleware.rbac")

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortWith(c, autherrors.ErrTokenMissing)
			return
		}

		decision, err := guard.Authorize(role, resource, action)
		if err != nil {
			logger.Error("authorization check failed",
				zap.String("role", role),
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err))
			abortWith(c, autherrors.ErrForbidden)
			return
		}

		if !decision.Allowed {
			logger.Warn("access denied",
				zap.String("role", role),
				zap.String("resource", resource),
				zap.String("action", action))
			abortWith(c, autherrors.ErrForbidden)
			return
		}

		c.Next()
	}
}
