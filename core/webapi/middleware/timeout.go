/*
BindBridge - 远程BIND区域管理器

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
// core/webapi/middleware/timeout.go
// 请求超时中间件

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"BindBridge/core/common"

	"github.com/gin-gonic/gin"
)

// TimeoutMiddlewareGin 创建请求超时中间件
func TimeoutMiddlewareGin(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		done := make(chan struct{})

		go func() {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			common.NewLogger().Warn("API请求超时: %s %s", c.Request.Method, c.Request.URL.Path)
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "请求处理超时"})
			c.Abort()
		}
	}
}

// GetTimeoutByPath 根据请求路径获取对应的超时时间
// 涉及远程SSH操作的路径需要明显更长的超时
func GetTimeoutByPath(path string) time.Duration {
	switch {
	case path == "/api/login" || path == "/api/refresh-token" || path == "/api/logout":
		return 10 * time.Second
	case path == "/api/install-bind":
		// 远程安装包含软件包下载，必须给足时间
		return 10 * time.Minute
	case strings.HasPrefix(path, "/api/zones"):
		// 区域发现与建区涉及多次远程命令
		return 60 * time.Second
	case strings.HasPrefix(path, "/api/settings/connection"):
		return 30 * time.Second
	default:
		return 10 * time.Second
	}
}

// TimeoutMiddlewareWithPathGin 根据路径设置不同超时时间的中间件
func TimeoutMiddlewareWithPathGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		timeout := GetTimeoutByPath(c.Request.URL.Path)
		TimeoutMiddlewareGin(timeout)(c)
	}
}
