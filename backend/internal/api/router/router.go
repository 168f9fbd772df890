package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hospital-asset/backend/config"
	"hospital-asset/backend/internal/api/handler"
	"hospital-asset/backend/internal/api/middleware"
	"hospital-asset/backend/internal/model"
	"hospital-asset/backend/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// blacklist、limiter 在 Redis 不可用时传 nil，对应中间件降级放行
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	blacklist middleware.TokenChecker,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window))
	}

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth(string(model.RoleAdmin))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", h.Auth.Login)

		// WebSocket 握手无法携带 Authorization 头
		v1.GET("/ws/repair-requests", middleware.JWTAuthQuery(jwtMgr, blacklist), admin, h.Realtime.Subscribe)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", admin, h.User.ListUsers)
				users.POST("", admin, h.User.CreateUser)
				users.GET("/:id", admin, h.User.GetUser)
				users.PUT("/:id", admin, h.User.UpdateUser)
				users.DELETE("/:id", admin, h.User.DeleteUser)
				users.GET("/:id/assets", h.Asset.ListUserAssets)
				users.GET("/:id/repair-requests", h.RepairRequest.ListUserRepairRequests)
			}

			// 资产模块
			assets := authorized.Group("/assets")
			{
				assets.GET("", h.Asset.ListAssets)
				assets.GET("/:id", h.Asset.GetAsset)
				assets.POST("", admin, h.Asset.CreateAsset)
				assets.PUT("/:id", admin, h.Asset.UpdateAsset)
				assets.DELETE("/:id", admin, h.Asset.DeleteAsset)
				assets.GET("/:id/repair-history", h.RepairHistory.ListByAsset)
			}

			// 维修记录模块（仅追加）
			authorized.POST("/repair-history", admin, h.RepairHistory.CreateRecord)

			// 维修工单模块
			repairRequests := authorized.Group("/repair-requests")
			{
				repairRequests.GET("", admin, h.RepairRequest.ListRepairRequests)
				repairRequests.POST("", h.RepairRequest.CreateRepairRequest)
				repairRequests.PUT("/:id", admin, h.RepairRequest.UpdateRepairRequest)
			}

			// 保养计划模块
			maintenance := authorized.Group("/maintenance-schedules")
			{
				maintenance.GET("", h.MaintenanceSchedule.ListSchedules)
				maintenance.POST("", admin, h.MaintenanceSchedule.CreateSchedule)
				maintenance.PUT("/:id", admin, h.MaintenanceSchedule.UpdateSchedule)
			}

			// 报表模块
			reports := authorized.Group("/reports", admin)
			{
				reports.GET("/assets", h.Report.GetAssetReport)
				reports.GET("/assets/export", h.Report.ExportAssetReport)
			}
		}
	}

	return r
}
