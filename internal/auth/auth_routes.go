package auth

import (
	"go-empms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, revoker *RedisRevoker) {
	r.POST("/login", middleware.RateLimitByIP(0.5, 5), handler.Login)
	r.POST("/refresh", handler.RefreshToken)
	r.POST("/logout", middleware.AuthMiddleware(revoker), handler.Logout)
	r.GET("/me", middleware.AuthMiddleware(revoker), middleware.RateLimitByUser(2, 5), handler.Me)
}
