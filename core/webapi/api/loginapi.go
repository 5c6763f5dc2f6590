// core/webapi/api/loginapi.go

package api

import (
	"net/http"
	"time"

	"BindBridge/core/database"
	"BindBridge/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler 处理登录请求
func LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, "无效的请求体", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.SendErrorResponseGin(c, "用户名和密码不能为空", http.StatusBadRequest)
		return
	}

	user, valid := database.ValidateUserWithDB(req.Username, req.Password)
	if !valid {
		middleware.SendErrorResponseGin(c, "用户名或密码错误", http.StatusUnauthorized)
		return
	}

	jwtMgr := middleware.GetJWTManager()
	accessToken, refreshToken, err := jwtMgr.GenerateToken(user)
	if err != nil {
		middleware.SendErrorResponseGin(c, "生成token失败", http.StatusInternalServerError)
		return
	}

	// 返回登录响应，不包含密码
	resp := middleware.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		ExpiresIn: int64(jwtMgr.AccessTokenExpiration / time.Second),
	}

	middleware.SendSuccessResponseGin(c, resp, "登录成功")
}

// LogoutRequest 登出请求结构体
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutHandler 处理登出请求
func LogoutHandler(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, "无效的请求体", http.StatusBadRequest)
		return
	}

	if _, valid := middleware.ValidateRefreshToken(req.RefreshToken); !valid {
		middleware.SendErrorResponseGin(c, "无效的刷新令牌", http.StatusUnauthorized)
		return
	}

	middleware.GetJWTManager().RevokeRefreshToken(req.RefreshToken)

	middleware.SendSuccessResponseGin(c, nil, "登出成功")
}
