// core/webapi/api/healthapi.go

package api

import (
	"net/http"
	"time"

	"BindBridge/core/database"

	"github.com/gin-gonic/gin"
)

// serviceStartTime 服务启动时间
var serviceStartTime = time.Now()

// HealthCheckHandler 健康检查
// 无需认证，报告服务和数据库状态
func HealthCheckHandler(c *gin.Context) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := database.CheckConnection(); err != nil {
		dbStatus = "error"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"service":  "bindbridge",
		"uptime":   time.Since(serviceStartTime).String(),
		"database": dbStatus,
	})
}
