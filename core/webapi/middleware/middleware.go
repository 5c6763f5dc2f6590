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
// core/webapi/middleware/middleware.go
// 请求日志与频率限制中间件

package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"BindBridge/core/common"

	"github.com/gin-gonic/gin"
)

// LimitCounter 滑动窗口请求计数器
type LimitCounter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	requests []time.Time
}

// NewLimitCounter 创建请求计数器
func NewLimitCounter(limit int, window time.Duration) *LimitCounter {
	return &LimitCounter{
		limit:  limit,
		window: window,
	}
}

// AddRequest 记录一次请求，返回是否在限制以内
func (lc *LimitCounter) AddRequest() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-lc.window)

	kept := lc.requests[:0]
	for _, t := range lc.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	lc.requests = kept

	if len(lc.requests) >= lc.limit {
		return false
	}
	lc.requests = append(lc.requests, now)
	return true
}

// RateLimiter 按客户端IP的频率限制器
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string]*LimitCounter
}

var (
	rateLimiter     *RateLimiter
	rateLimiterOnce sync.Once
)

// GetRateLimiter 获取频率限制器实例
func GetRateLimiter() *RateLimiter {
	rateLimiterOnce.Do(func() {
		rateLimiter = &RateLimiter{
			limit:    common.GetConfigInt("API", "RATE_LIMIT", 120),
			window:   time.Duration(common.GetConfigInt("API", "RATE_LIMIT_WINDOW", 60)) * time.Second,
			counters: make(map[string]*LimitCounter),
		}
	})
	return rateLimiter
}

// GetIPLimit 获取指定IP的计数器
func (rl *RateLimiter) GetIPLimit(ip string) *LimitCounter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	counter, exists := rl.counters[ip]
	if !exists {
		counter = NewLimitCounter(rl.limit, rl.window)
		rl.counters[ip] = counter
	}
	return counter
}

// RateLimitMiddleware 频率限制中间件
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isRateLimitEnabled() {
			c.Next()
			return
		}

		limiter := GetRateLimiter()
		if !limiter.GetIPLimit(c.ClientIP()).AddRequest() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoggerMiddleware 请求日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLogEnabled() {
			c.Next()
			return
		}

		startTime := time.Now()
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// 获取用户信息（如果已认证）
		userID := uint(0)
		username := ""
		if token := GetTokenFromRequest(c.Request); token != "" {
			if claims, err := GetJWTManager().GetUserFromToken(token); err == nil {
				userID = claims.UserID
				username = claims.Username
			}
		}

		c.Next()

		responseTime := time.Since(startTime)
		statusCode := c.Writer.Status()

		logger := common.NewLogger()
		logMessage := fmt.Sprintf("API请求 - IP: %s, 方法: %s, 路径: %s, 查询: %s, 状态码: %d, 响应时间: %v",
			clientIP, method, path, query, statusCode, responseTime)
		if userID > 0 {
			logMessage += fmt.Sprintf(", 用户ID: %d, 用户名: %s", userID, username)
		}

		switch {
		case statusCode >= 500:
			logger.Error("%s", logMessage)
		case statusCode >= 400:
			logger.Warn("%s", logMessage)
		default:
			logger.Info("%s", logMessage)
		}
	}
}

// isRateLimitEnabled 检查是否启用了频率限制
func isRateLimitEnabled() bool {
	return common.GetConfig("API", "RATE_LIMIT_ENABLED") != "false"
}

// isLogEnabled 检查是否启用了请求日志
func isLogEnabled() bool {
	return common.GetConfig("API", "LOG_ENABLED") != "false"
}
