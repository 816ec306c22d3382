package leave

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, revoker middleware.TokenRevoker, guard rbac.Guard) {
	authed := r.Group("", middleware.AuthMiddleware(revoker))

	// Self-service, scoped to the caller's own records.
	authed.POST("/leave", handler.Submit)
	authed.GET("/leave", handler.ListOwn)
	authed.GET("/leave-balance", handler.OwnBalance)

	manager := authed.Group("/manager")
	{
		manager.PUT("/leave-requests/:id",
			middleware.RequireCapability(guard, rbac.ResourceLeave, rbac.ActionAdvance),
			handler.Advance)
	}

	admin := authed.Group("/admin")
	{
		admin.GET("/leave-requests",
			middleware.RequireCapability(guard, rbac.ResourceLeave, rbac.ActionRead),
			handler.ListAll)
		admin.PUT("/leave-requests/:id",
			middleware.RequireCapability(guard, rbac.ResourceLeave, rbac.ActionDecide),
			handler.Decide)
		admin.GET("/leave-balance/:empId",
			middleware.RequireCapability(guard, rbac.ResourceBalance, rbac.ActionRead),
			handler.BalanceByEmpID)
		admin.GET("/leave-balances",
			middleware.RequireCapability(guard, rbac.ResourceBalance, rbac.ActionRead),
			handler.AllBalances)
	}
}
