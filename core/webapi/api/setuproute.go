// core/webapi/api/setuproute.go

package api

import (
	"BindBridge/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes 设置API路由
// 登录与健康检查无需认证，其余路由经过JWT认证
func SetupRoutes(engine *gin.Engine) {
	// 健康检查API路由 - 无需认证，应用日志、频率限制和超时中间件
	engine.GET("/api/health", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), HealthCheckHandler)

	// 认证API路由 - 应用频率限制、日志和超时中间件
	engine.POST("/api/login", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), LoginHandler)
	engine.POST("/api/refresh-token", middleware.LoggerMiddleware(), middleware.RateLimitMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), middleware.RefreshTokenHandler)
	engine.POST("/api/logout", middleware.LoggerMiddleware(), middleware.TimeoutMiddlewareWithPathGin(), LogoutHandler)

	// 需要认证的API路由组 - 应用所有中间件
	authed := engine.Group("/api",
		middleware.LoggerMiddleware(),
		middleware.RateLimitMiddleware(),
		middleware.TimeoutMiddlewareWithPathGin(),
		middleware.AuthMiddlewareGin())

	// 区域API路由
	authed.GET("/zones", ZonesListHandler)
	authed.POST("/zones", ZoneCreateHandler)

	// 区域记录API路由 - 更新和删除明确不支持
	authed.GET("/zones/:zone/records", RecordsListHandler)
	authed.POST("/zones/:zone/records", RecordAppendHandler)
	authed.PUT("/zones/:zone/records/:id", RecordUpdateHandler)
	authed.DELETE("/zones/:zone/records/:id", RecordDeleteHandler)

	// 连接配置API路由
	authed.GET("/settings/connection", ConnectionGetHandler)
	authed.PUT("/settings/connection", ConnectionSaveHandler)
	authed.POST("/settings/connection/test", ConnectionTestHandler)
	authed.GET("/settings/connection/status", ConnectionStatusHandler)

	// 远程BIND安装API路由 - 流式进度，不走统一超时
	engine.POST("/api/install-bind",
		middleware.LoggerMiddleware(),
		middleware.RateLimitMiddleware(),
		middleware.AuthMiddlewareGin(),
		InstallBindHandler)
}
