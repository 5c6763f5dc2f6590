// core/webapi/middleware/jwt.go
// JWT令牌签发与验证

package middleware

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"BindBridge/core/common"
	"BindBridge/core/database"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// claims 自定义JWT声明
type claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// 最小密钥长度
const minSecretKeyLength = 32

// RefreshTokenInfo 刷新令牌记录
type RefreshTokenInfo struct {
	UserID    uint
	ExpiresAt time.Time
}

type JWTManager struct {
	logger                 *common.Logger
	jwtKey                 []byte
	mu                     sync.Mutex
	RefreshTokens          map[string]RefreshTokenInfo
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Claims                 *claims
}

// 全局JWT管理器实例
var (
	jwtManager     *JWTManager
	jwtManagerOnce sync.Once
)

// GetJWTManager 获取JWT管理器实例
func GetJWTManager() *JWTManager {
	jwtManagerOnce.Do(func() {
		jwtManager = newJWTManager()
	})
	return jwtManager
}

func newJWTManager() *JWTManager {
	logger := common.NewLogger()
	jwtSecret := getJWTSecret()

	if !validateSecretKey(jwtSecret) {
		logger.Warn("JWT密钥强度不足，建议使用至少32字节的混合字符随机字符串")
		if len(jwtSecret) < minSecretKeyLength {
			jwtSecret = generateStrongSecret()
			logger.Warn("已生成临时强密钥，请在生产环境中配置安全的密钥")
		}
	}

	j := &JWTManager{
		logger:        logger,
		jwtKey:        []byte(jwtSecret),
		RefreshTokens: make(map[string]RefreshTokenInfo),
		Claims:        &claims{},
	}

	j.loadJWTExpirationConfig()

	return j
}

// loadJWTExpirationConfig 从配置文件加载JWT过期时间配置
func (j *JWTManager) loadJWTExpirationConfig() {
	// 访问令牌过期时间（分钟）
	accessExp := 30
	if expStr := common.GetConfig("JWT", "ACCESS_TOKEN_EXPIRATION"); expStr != "" {
		if exp, err := strconv.Atoi(expStr); err == nil && exp > 0 {
			accessExp = exp
		}
	}
	j.AccessTokenExpiration = time.Duration(accessExp) * time.Minute

	// 刷新令牌过期时间（天）
	refreshExp := 7
	if expStr := common.GetConfig("JWT", "REFRESH_TOKEN_EXPIRATION"); expStr != "" {
		if exp, err := strconv.Atoi(expStr); err == nil && exp > 0 {
			refreshExp = exp
		}
	}
	j.RefreshTokenExpiration = time.Duration(refreshExp) * 24 * time.Hour
}

// getJWTSecret 从多来源获取JWT密钥
// 优先级：环境变量 > 配置文件 > 默认值
func getJWTSecret() string {
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		return secret
	}
	if secret := common.GetConfig("JWT", "JWT_SECRET_KEY"); secret != "" {
		return secret
	}
	return "your-default-jwt-secret-key-change-this-in-production"
}

// validateSecretKey 验证密钥强度
// 要求至少32字节且包含至少三类字符
func validateSecretKey(secret string) bool {
	if len(secret) < minSecretKeyLength {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, ch := range secret {
		switch {
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	classes := 0
	for _, has := range []bool{hasLower, hasUpper, hasDigit, hasSpecial} {
		if has {
			classes++
		}
	}
	return classes >= 3
}

// generateStrongSecret 生成强随机密钥
func generateStrongSecret() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"
	secret := make([]byte, minSecretKeyLength)
	for i := range secret {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			// crypto/rand不可用时退化为时间噪声
			secret[i] = charset[time.Now().UnixNano()%int64(len(charset))]
			continue
		}
		secret[i] = charset[n.Int64()]
	}
	return string(secret)
}

// GetUserFromToken 从token中解析用户声明
func (j *JWTManager) GetUserFromToken(tokenString string) (*claims, error) {
	parsed := &claims{}

	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		return j.jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("无效的token")
	}

	return parsed, nil
}

// GenerateToken 为用户签发访问令牌和刷新令牌
func (j *JWTManager) GenerateToken(user *database.User) (string, string, error) {
	accessClaims := claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.AccessTokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "BindBridge",
			Subject:   "access token",
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString(j.jwtKey)
	if err != nil {
		return "", "", err
	}

	refreshTokenString := j.GenerateRefreshToken(user.ID)

	return accessTokenString, refreshTokenString, nil
}

// GenerateRefreshToken 生成并登记刷新令牌
func (j *JWTManager) GenerateRefreshToken(userID uint) string {
	refreshToken := fmt.Sprintf("%d_%d_%d", userID, time.Now().UnixNano(), time.Now().Unix())

	j.mu.Lock()
	j.RefreshTokens[refreshToken] = RefreshTokenInfo{
		UserID:    userID,
		ExpiresAt: time.Now().Add(j.RefreshTokenExpiration),
	}
	j.mu.Unlock()

	return refreshToken
}

// RevokeRefreshToken 吊销刷新令牌
func (j *JWTManager) RevokeRefreshToken(refreshToken string) {
	j.mu.Lock()
	delete(j.RefreshTokens, refreshToken)
	j.mu.Unlock()
}

// ValidateRefreshToken 验证刷新令牌
// 过期的令牌视为无效并顺带清除
func ValidateRefreshToken(refreshToken string) (uint, bool) {
	j := GetJWTManager()

	j.mu.Lock()
	defer j.mu.Unlock()

	info, exists := j.RefreshTokens[refreshToken]
	if !exists {
		return 0, false
	}
	if time.Now().After(info.ExpiresAt) {
		delete(j.RefreshTokens, refreshToken)
		return 0, false
	}
	return info.UserID, true
}

// TokenResponse 令牌响应结构体
type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         interface{} `json:"user"`
	ExpiresIn    int64       `json:"expires_in"` // 访问令牌过期时间（秒）
}

// RefreshTokenRequest 刷新令牌请求结构体
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenHandler 处理令牌刷新请求
func RefreshTokenHandler(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendErrorResponseGin(c, "无效的请求体", http.StatusBadRequest)
		return
	}

	userID, valid := ValidateRefreshToken(req.RefreshToken)
	if !valid {
		SendErrorResponseGin(c, "无效的刷新令牌", http.StatusUnauthorized)
		return
	}

	user, err := database.GetUserByID(userID)
	if err != nil {
		SendErrorResponseGin(c, "用户不存在", http.StatusNotFound)
		return
	}

	j := GetJWTManager()
	accessToken, refreshToken, err := j.GenerateToken(user)
	if err != nil {
		SendErrorResponseGin(c, "生成token失败", http.StatusInternalServerError)
		return
	}

	// 旧的刷新令牌一次性作废
	j.RevokeRefreshToken(req.RefreshToken)

	resp := TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		ExpiresIn: int64(j.AccessTokenExpiration / time.Second),
	}

	SendSuccessResponseGin(c, resp, "令牌刷新成功")
}
