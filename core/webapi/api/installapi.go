// core/webapi/api/installapi.go
// 远程BIND安装API，进度以NDJSON流式返回

package api

import (
	"encoding/json"
	"net/http"

	"BindBridge/core/bind"
	"BindBridge/core/remote"
	"BindBridge/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// InstallBindHandler 在远程服务器上安装BIND
// 每完成一步输出一行JSON事件，客户端按行消费
func InstallBindHandler(c *gin.Context) {
	cfg := sshConfigFromSettings()
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

	c.Writer.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.WriteHeader(http.StatusOK)

	events := bind.NewInstaller(session).Run()
	encoder := json.NewEncoder(c.Writer)

	for event := range events {
		if err := encoder.Encode(event); err != nil {
			// 客户端断开，安装在远程端继续，这里只能停止上报
			return
		}
		c.Writer.Flush()
	}
}
