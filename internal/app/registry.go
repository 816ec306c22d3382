package app

import (
	"database/sql"

	"go-empms/internal/attendance"
	"go-empms/internal/auth"
	"go-empms/internal/department"
	"go-empms/internal/leave"
	"go-empms/internal/messaging/kafka"
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"
	"go-empms/internal/report"
	"go-empms/internal/shared/counter"
	"go-empms/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Authorization core ---
	guard, err := rbac.NewGuard()
	if err != nil {
		return err
	}
	revoker := auth.NewRedisRevoker(rdb)

	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)

	// --- Services ---
	leaveService := leave.NewService(db, leaveRepo, outboxRepo)
	userService := user.NewService(db, userRepo, counterRepo, outboxRepo, leaveService)
	authService := auth.NewService(authRepo, revoker)
	departmentService := department.NewService(db, departmentRepo, rdb)
	attendanceService := attendance.NewService(attendanceRepo)
	reportService := report.NewService(userService, attendanceService, leaveService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	departmentHandler := department.NewHandler(departmentService)
	leaveHandler := leave.NewHandler(leaveService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	reportHandler := report.NewHandler(reportService)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	// --- Routes ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, revoker)
		user.RegisterRoutes(api, userHandler, revoker, guard)
		department.RegisterRoutes(api, departmentHandler, revoker, guard)
		leave.RegisterRoutes(api, leaveHandler, revoker, guard)
		attendance.RegisterRoutes(api, attendanceHandler, revoker, guard)
		report.RegisterRoutes(api, reportHandler, revoker, guard)
	}

	return nil
}
