package attendance

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, revoker middleware.TokenRevoker, guard rbac.Guard) {
	authed := r.Group("", middleware.AuthMiddleware(revoker))

	authed.POST("/attendance", handler.Mark)
	authed.GET("/attendance", handler.ListOwn)

	admin := authed.Group("/admin/attendance",
		middleware.RequireCapability(guard, rbac.ResourceAttendance, rbac.ActionRead))
	{
		admin.GET("", handler.ListAll)
		admin.GET("/:empId", handler.ListByEmpID)
	}
}
