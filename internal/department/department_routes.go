package department

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, revoker middleware.TokenRevoker, guard rbac.Guard) {
	authed := r.Group("", middleware.AuthMiddleware(revoker))

	// Options feed the employee form for any signed-in role.
	authed.GET("/departments/options", handler.Options)

	admin := authed.Group("/admin/departments")
	{
		admin.GET("", middleware.RequireCapability(guard, rbac.ResourceDepartment, rbac.ActionRead), handler.List)
		admin.POST("", middleware.RequireCapability(guard, rbac.ResourceDepartment, rbac.ActionManage), handler.Create)
		admin.DELETE("/:id", middleware.RequireCapability(guard, rbac.ResourceDepartment, rbac.ActionManage), handler.Delete)
	}
}
