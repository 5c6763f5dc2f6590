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

// core/common/config.go
package common

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// 默认配置模板
const DefaultConfigTemplate = `# BindBridge Configuration File
# Format: INI/Conf
[SSH]
# Remote BIND server address
SSH_HOST=
# SSH port
# Default: 22
SSH_PORT=22
# SSH login user
SSH_USER=
# Private key file path (either key or password is required)
SSH_KEY_PATH=
# Password authentication (either key or password is required)
SSH_PASSWORD=

[BIND]
# Main named.conf path on the remote server
# Default: /etc/bind/named.conf
NAMED_CONF_PATH=/etc/bind/named.conf
# Scratch directory for staged zone files (must be world-writable)
# Default: /tmp
SCRATCH_DIR=/tmp

[APIServer]
# API Server port
# Default: 8086
API_SERVER_PORT=8086
# API Server address
# Default: 0.0.0.0
API_SERVER_IP_ADDR=0.0.0.0
# GIN running mode (debug/release)
# Default: release
GIN_MODE=release

[JWT]
# JWT secret key for authentication
JWT_SECRET_KEY=your-default-jwt-secret-key-change-this-in-production
# Access token expiration (minutes)
# Default: 30
ACCESS_TOKEN_EXPIRATION=30

[Database]
# Database file path (relative to working directory)
# Default: bindbridge.db
DB_PATH=bindbridge.db

[Logging]
# Log level (DEBUG/INFO/WARN/ERROR)
# Default: INFO
LOG_LEVEL=INFO
`

// Config 配置存储
type Config struct {
	sections map[string]map[string]string
}

// 全局配置实例
var globalConfig *Config
var configMu sync.RWMutex

// ConfigPathEnvKey 配置文件路径覆盖环境变量
const ConfigPathEnvKey = "BINDBRIDGE_CONFIG"

// getConfigFilePath 获取配置文件路径
func getConfigFilePath() string {
	if path := os.Getenv(ConfigPathEnvKey); path != "" {
		return path
	}

	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}
	return filepath.Join(workingDir, "config", "bindbridge.conf")
}

// LoadConfig 加载配置文件
// 配置文件不存在时写入默认模板并继续使用默认值
func LoadConfig() {
	configPath := getConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		NewLoggerWithLevel(INFO).Info("配置文件不存在: %s，正在创建默认配置", configPath)

		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			NewLoggerWithLevel(INFO).Error("创建配置目录失败: %v", err)
		}

		if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate), 0644); err != nil {
			NewLoggerWithLevel(INFO).Error("创建默认配置文件失败: %v", err)
		}
	}

	config, err := parseINI(configPath)
	if err != nil {
		NewLoggerWithLevel(INFO).Error("解析配置文件失败: %v", err)
		config = &Config{sections: make(map[string]map[string]string)}
	}

	configMu.Lock()
	globalConfig = config
	configMu.Unlock()

	setDefaultConfig()
}

// parseINI 解析INI配置文件
func parseINI(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &Config{
		sections: make(map[string]map[string]string),
	}

	var currentSection string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// 跳过注释和空行
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		// 处理节 [Section]
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			if _, exists := config.sections[currentSection]; !exists {
				config.sections[currentSection] = make(map[string]string)
			}
			continue
		}

		// 处理键值对 key=value
		if idx := strings.Index(line, "="); idx != -1 {
			key := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+1:])

			if currentSection == "" {
				currentSection = "Default"
				if _, exists := config.sections[currentSection]; !exists {
					config.sections[currentSection] = make(map[string]string)
				}
			}

			config.sections[currentSection][key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaultConfig 设置默认配置值
func setDefaultConfig() {
	ensureSection("SSH")
	ensureSection("BIND")
	ensureSection("APIServer")
	ensureSection("JWT")
	ensureSection("Database")
	ensureSection("Logging")

	setDefault("SSH", "SSH_PORT", "22")
	setDefault("BIND", "NAMED_CONF_PATH", "/etc/bind/named.conf")
	setDefault("BIND", "SCRATCH_DIR", "/tmp")
	setDefault("APIServer", "API_SERVER_PORT", "8086")
	setDefault("APIServer", "API_SERVER_IP_ADDR", "0.0.0.0")
	setDefault("APIServer", "GIN_MODE", "release")
	setDefault("JWT", "JWT_SECRET_KEY", "your-default-jwt-secret-key-change-this-in-production")
	setDefault("JWT", "ACCESS_TOKEN_EXPIRATION", "30")
	setDefault("Database", "DB_PATH", "bindbridge.db")
	setDefault("Logging", "LOG_LEVEL", "INFO")
}

// ensureSection 确保节存在
func ensureSection(section string) {
	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		globalConfig = &Config{
			sections: make(map[string]map[string]string),
		}
	}

	if _, exists := globalConfig.sections[section]; !exists {
		globalConfig.sections[section] = make(map[string]string)
	}
}

// setDefault 设置默认值（如果不存在）
func setDefault(section, key, defaultValue string) {
	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		return
	}

	if _, exists := globalConfig.sections[section][key]; !exists {
		globalConfig.sections[section][key] = defaultValue
	}
}

// GetConfig 获取配置值
func GetConfig(section, key string) string {
	configMu.RLock()
	defer configMu.RUnlock()

	if globalConfig == nil {
		return ""
	}

	if sec, exists := globalConfig.sections[section]; exists {
		return sec[key]
	}
	return ""
}

// GetConfigInt 获取整数配置值
func GetConfigInt(section, key string, defaultVal int) int {
	value := GetConfig(section, key)
	if value == "" {
		return defaultVal
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal
	}
	return intValue
}

// SetConfig 更新配置值（仅内存）
func SetConfig(section, key, value string) {
	ensureSection(section)

	configMu.Lock()
	defer configMu.Unlock()

	globalConfig.sections[section][key] = value
}

// GetSectionConfig 获取整个节的配置
func GetSectionConfig(section string) map[string]string {
	configMu.RLock()
	defer configMu.RUnlock()

	result := make(map[string]string)
	if globalConfig == nil {
		return result
	}

	if sec, exists := globalConfig.sections[section]; exists {
		for k, v := range sec {
			result[k] = v
		}
	}
	return result
}

// SaveConfig 将当前配置写回配置文件
func SaveConfig() error {
	configMu.RLock()
	defer configMu.RUnlock()

	if globalConfig == nil {
		return fmt.Errorf("配置未初始化")
	}

	var sb strings.Builder
	sb.WriteString("# BindBridge Configuration File\n# Format: INI/Conf\n")

	// 按节名排序，保证输出稳定
	sections := make([]string, 0, len(globalConfig.sections))
	for section := range globalConfig.sections {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		sb.WriteString(fmt.Sprintf("[%s]\n", section))

		keys := make([]string, 0, len(globalConfig.sections[section]))
		for key := range globalConfig.sections[section] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("%s=%s\n", key, globalConfig.sections[section][key]))
		}
		sb.WriteString("\n")
	}

	configPath := getConfigFilePath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %v", err)
	}

	if err := os.WriteFile(configPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %v", err)
	}

	return nil
}
