package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"certhub/backend/config"
	"certhub/backend/internal/api/handler"
	"certhub/backend/internal/api/middleware"
	"certhub/backend/pkg/jwt"
	"certhub/backend/pkg/redis"
)

// 登录/注册接口限流：每 IP 每分钟 10 次
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	// 上传文件走 multipart，留出比单文件上限略大的请求体空间
	r.Use(middleware.BodyLimit(cfg.Upload.MaxFileSize + 1<<20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，带限流）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, authRateLimit, authRateWindow))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/change-password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.PUT("/:id", middleware.RoleAuth("admin"), h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
				users.POST("/:id/reset-password", middleware.RoleAuth("admin"), h.User.ResetPassword)
				users.POST("/import", middleware.RoleAuth("admin"), h.User.ImportUsers)
			}

			// 证书模块（学生与教师）
			certs := authorized.Group("/certificates")
			certs.Use(middleware.RoleAuth("student", "teacher"))
			{
				certs.POST("/upload", h.Certificate.Upload)
				certs.POST("/extract", h.Certificate.Extract)
				certs.POST("/draft", h.Certificate.SaveDraft)
				certs.POST("/submit", h.Certificate.Submit)
				certs.GET("", h.Certificate.ListMine)
				certs.PUT("/:id", h.Certificate.Update)
				certs.DELETE("/:id", h.Certificate.Delete)
			}

			// 系统配置模块
			configs := authorized.Group("/system-configs")
			{
				configs.GET("/:key", h.SystemConfig.Get)
				configs.GET("", middleware.RoleAuth("admin"), h.SystemConfig.List)
				configs.PUT("/:key", middleware.RoleAuth("admin"), h.SystemConfig.Set)
			}

			// 导出模块（管理员）
			authorized.GET("/export", middleware.RoleAuth("admin"), h.Export.Export)
		}
	}

	return r
}
