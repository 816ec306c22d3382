package report

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, revoker middleware.TokenRevoker, guard rbac.Guard) {
	authed := r.Group("", middleware.AuthMiddleware(revoker))

	authed.GET("/export-self", handler.ExportSelf)
	authed.GET("/export-self-pdf", handler.ExportSelfPDF)

	admin := authed.Group("/admin",
		middleware.RequireCapability(guard, rbac.ResourceReport, rbac.ActionExport))
	{
		admin.GET("/export-employee", handler.ExportEmployee)
		admin.GET("/export-employee-pdf", handler.ExportEmployeePDF)
	}
}
