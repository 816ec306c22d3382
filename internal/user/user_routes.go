package user

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, revoker middleware.TokenRevoker, guard rbac.Guard) {
	authed := r.Group("", middleware.AuthMiddleware(revoker))

	profile := authed.Group("/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PATCH("/contact", handler.UpdateContact)
	}

	admin := authed.Group("/admin/employees")
	{
		admin.GET("", middleware.RequireCapability(guard, rbac.ResourceEmployee, rbac.ActionRead), handler.List)
		admin.POST("", middleware.RequireCapability(guard, rbac.ResourceEmployee, rbac.ActionManage), handler.Create)
		admin.PUT("/:empId", middleware.RequireCapability(guard, rbac.ResourceEmployee, rbac.ActionManage), handler.UpdateByEmpID)
	}
}
