// core/webapi/api/client.go
// 按请求构建远程会话与BIND管理器

package api

import (
	"errors"
	"net/http"

	"BindBridge/core/bind"
	"BindBridge/core/common"
	"BindBridge/core/remote"
	"BindBridge/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// sshConfigFromSettings 从配置文件读取SSH连接配置
func sshConfigFromSettings() remote.ClientConfig {
	port := common.GetConfigInt("SSH", "SSH_PORT", 22)
	return remote.ClientConfig{
		Host:     common.GetConfig("SSH", "SSH_HOST"),
		Port:     port,
		User:     common.GetConfig("SSH", "SSH_USER"),
		KeyPath:  common.GetConfig("SSH", "SSH_KEY_PATH"),
		Password: common.GetConfig("SSH", "SSH_PASSWORD"),
	}
}

// bindConfigFromSettings 从配置文件读取BIND引擎配置
func bindConfigFromSettings() bind.Config {
	cfg := bind.DefaultConfig()
	if confPath := common.GetConfig("BIND", "NAMED_CONF_PATH"); confPath != "" {
		cfg.NamedConfPath = confPath
	}
	if scratch := common.GetConfig("BIND", "SCRATCH_DIR"); scratch != "" {
		cfg.ScratchDir = scratch
	}
	return cfg
}

// newManagerSession 建立远程会话并创建BIND管理器
// 每个请求一个会话，调用方负责Close
func newManagerSession() (*bind.Manager, remote.Session, error) {
	cfg := sshConfigFromSettings()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	session, err := remote.Dial(cfg)
	if err != nil {
		return nil, nil, err
	}

	return bind.NewManager(bindConfigFromSettings(), session), session, nil
}

// sendEngineError 将引擎错误映射为HTTP响应
func sendEngineError(c *gin.Context, err error) {
	var vErr *bind.ValidationError
	var wErr *bind.WriteError

	switch {
	case errors.As(err, &vErr):
		middleware.SendDetailedErrorResponseGin(c, "验证失败", http.StatusBadRequest, err)
	case errors.Is(err, bind.ErrZoneAlreadyExists):
		middleware.SendDetailedErrorResponseGin(c, "区域已存在", http.StatusConflict, err)
	case errors.Is(err, bind.ErrZoneNotFound):
		middleware.SendDetailedErrorResponseGin(c, "区域不存在", http.StatusNotFound, err)
	case errors.Is(err, bind.ErrMalformedZone):
		middleware.SendDetailedErrorResponseGin(c, "区域文件格式错误", http.StatusUnprocessableEntity, err)
	case errors.Is(err, bind.ErrConfigUnreadable),
		errors.Is(err, remote.ErrAuthenticationFailed),
		errors.Is(err, remote.ErrConnectionRefused):
		middleware.SendDetailedErrorResponseGin(c, "远程服务器不可用", http.StatusBadGateway, err)
	case errors.As(err, &wErr):
		middleware.SendDetailedErrorResponseGin(c, "远程写入失败", http.StatusInternalServerError, err)
	default:
		middleware.SendDetailedErrorResponseGin(c, "操作失败", http.StatusInternalServerError, err)
	}
}
