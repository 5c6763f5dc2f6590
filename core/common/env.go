// core/common/env.go
// 环境变量处理

package common

import (
	"os"
	"strconv"
)

// 环境变量键名常量
const (
	// DevModeEnvKey 开发模式环境变量键名
	DevModeEnvKey = "BINDBRIDGE_DEV_MODE"
)

// LoadEnv 加载配置（兼容旧版本）
func LoadEnv() {
	LoadConfig()
	NewLogger().Info("配置加载完成")
}

// IsDevMode 检查是否为开发模式
func IsDevMode() bool {
	return GetEnvBool(DevModeEnvKey, false)
}

// GetEnv 获取环境变量值，如果不存在则返回默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool 获取布尔类型环境变量
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return boolValue
	}
	return defaultValue
}

// GetEnvInt 获取整数类型环境变量
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return intValue
	}
	return defaultValue
}
