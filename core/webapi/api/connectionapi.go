// core/webapi/api/connectionapi.go
// SSH连接配置管理API

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"BindBridge/core/common"
	"BindBridge/core/remote"
	"BindBridge/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// maskedPassword 配置读取响应中密码字段的占位值
const maskedPassword = "********"

// ConnectionSettings 连接配置请求/响应结构体
type ConnectionSettings struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	KeyPath  string `json:"key_path"`
	Password string `json:"password,omitempty"`
}

// toClientConfig 转换为SSH客户端配置
func (s ConnectionSettings) toClientConfig() remote.ClientConfig {
	port := s.Port
	if port == 0 {
		port = 22
	}
	return remote.ClientConfig{
		Host:     s.Host,
		Port:     port,
		User:     s.User,
		KeyPath:  s.KeyPath,
		Password: s.Password,
	}
}

// ConnectionGetHandler 读取当前连接配置
// 密码永远不回传明文
func ConnectionGetHandler(c *gin.Context) {
	settings := ConnectionSettings{
		Host:    common.GetConfig("SSH", "SSH_HOST"),
		Port:    common.GetConfigInt("SSH", "SSH_PORT", 22),
		User:    common.GetConfig("SSH", "SSH_USER"),
		KeyPath: common.GetConfig("SSH", "SSH_KEY_PATH"),
	}
	if common.GetConfig("SSH", "SSH_PASSWORD") != "" {
		settings.Password = maskedPassword
	}

	middleware.SendSuccessResponseGin(c, settings, "")
}

// ConnectionSaveHandler 保存连接配置
func ConnectionSaveHandler(c *gin.Context) {
	var req ConnectionSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, "无效的请求体", http.StatusBadRequest)
		return
	}

	if req.Host == "" || req.User == "" {
		middleware.SendErrorResponseGin(c, "主机地址和用户名不能为空", http.StatusBadRequest)
		return
	}

	common.SetConfig("SSH", "SSH_HOST", req.Host)
	if req.Port > 0 {
		common.SetConfig("SSH", "SSH_PORT", strconv.Itoa(req.Port))
	}
	common.SetConfig("SSH", "SSH_USER", req.User)
	common.SetConfig("SSH", "SSH_KEY_PATH", req.KeyPath)
	// 占位值表示保留现有密码
	if req.Password != "" && req.Password != maskedPassword {
		common.SetConfig("SSH", "SSH_PASSWORD", req.Password)
	}

	if err := common.SaveConfig(); err != nil {
		middleware.SendDetailedErrorResponseGin(c, "保存配置失败", http.StatusInternalServerError, err)
		return
	}

	middleware.SendSuccessResponseGin(c, nil, "连接配置保存成功")
}

// ConnectionTestHandler 测试SSH连接
// 请求体提供配置时测试该配置，否则测试已保存的配置
func ConnectionTestHandler(c *gin.Context) {
	cfg := sshConfigFromSettings()

	var req ConnectionSettings
	if err := c.ShouldBindJSON(&req); err == nil && req.Host != "" {
		override := req.toClientConfig()
		// 未提供密码时沿用已保存的密码
		if override.Password == "" || override.Password == maskedPassword {
			override.Password = cfg.Password
		}
		cfg = override
	}

	if err := cfg.Validate(); err != nil {
		middleware.SendDetailedErrorResponseGin(c, "连接配置不完整", http.StatusBadRequest, err)
		return
	}

	session, err := remote.Dial(cfg)
	if err != nil {
		sendEngineError(c, err)
		return
	}
	defer session.Close()

	res, err := session.Run("uname -a")
	if err != nil {
		middleware.SendDetailedErrorResponseGin(c, "远程命令执行失败", http.StatusBadGateway, err)
		return
	}

	middleware.SendSuccessResponseGin(c, gin.H{
		"server": fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		"uname":  res.Stdout,
	}, "连接测试成功")
}

// ConnectionStatusHandler 报告远程服务器与BIND的当前状态
func ConnectionStatusHandler(c *gin.Context) {
	manager, session, err := newManagerSession()
	if err != nil {
		middleware.SendSuccessResponseGin(c, gin.H{
			"connected": false,
			"error":     err.Error(),
		}, "")
		return
	}
	defer session.Close()

	zones, err := manager.DiscoverZones()
	if err != nil {
		middleware.SendSuccessResponseGin(c, gin.H{
			"connected":  true,
			"bind_ready": false,
			"error":      err.Error(),
		}, "")
		return
	}

	middleware.SendSuccessResponseGin(c, gin.H{
		"connected":   true,
		"bind_ready":  true,
		"zone_count":  len(zones),
		"config_file": manager.ConfigPath(),
	}, "")
}
