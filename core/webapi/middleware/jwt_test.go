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
// core/webapi/middleware/jwt_test.go
// JWT管理器测试

package middleware

import (
	"testing"
	"time"

	"BindBridge/core/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupJWTTestDB 创建测试用的内存数据库
func setupJWTTestDB(t *testing.T) func() {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("创建测试数据库失败: %v", err)
	}

	database.DB = db

	if err := database.DB.AutoMigrate(&database.User{}); err != nil {
		t.Fatalf("迁移用户表失败: %v", err)
	}

	return func() {
		sqlDB, _ := database.DB.DB()
		sqlDB.Close()
		database.DB = nil
	}
}

// TestValidateSecretKey 测试密钥强度验证
func TestValidateSecretKey(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		expected bool
	}{
		{"有效强密钥", "ThisIsAVeryStrongSecretKey123!@#abcdef", true},
		{"过短密钥", "short", false},
		{"仅小写字母-32字符", "abcdefghijklmnopqrstuvwxyzabcdef", false},
		{"仅数字-32字符", "12345678901234567890123456789012", false},
		{"空密钥", "", false},
		{"混合类型密钥-32字符", "Abc123!@#Def456$%^Ghi789&*()Jkl012", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSecretKey(tt.secret)
			if result != tt.expected {
				t.Errorf("validateSecretKey(%q) = %v, want %v", tt.secret, result, tt.expected)
			}
		})
	}
}

// TestGenerateStrongSecret 测试强密钥生成
func TestGenerateStrongSecret(t *testing.T) {
	secret1 := generateStrongSecret()
	secret2 := generateStrongSecret()

	if len(secret1) < minSecretKeyLength {
		t.Errorf("生成的密钥长度 %d 小于最小长度 %d", len(secret1), minSecretKeyLength)
	}

	if secret1 == secret2 {
		t.Error("两次生成的密钥不应该相同")
	}
}

// newTestJWTManager 创建测试用JWT管理器
func newTestJWTManager() *JWTManager {
	return &JWTManager{
		jwtKey:                 []byte("test-secret-key-for-jwt-testing-12345"),
		RefreshTokens:          make(map[string]RefreshTokenInfo),
		AccessTokenExpiration:  30 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Claims:                 &claims{},
	}
}

// TestJWTManagerGenerateToken 测试JWT令牌生成和解析
func TestJWTManagerGenerateToken(t *testing.T) {
	cleanup := setupJWTTestDB(t)
	defer cleanup()

	user := &database.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}
	database.DB.Create(user)

	jwtMgr := newTestJWTManager()

	accessToken, refreshToken, err := jwtMgr.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if accessToken == "" {
		t.Error("accessToken 不应该为空")
	}
	if refreshToken == "" {
		t.Error("refreshToken 不应该为空")
	}

	parsed, err := jwtMgr.GetUserFromToken(accessToken)
	if err != nil {
		t.Fatalf("GetUserFromToken() error = %v", err)
	}
	if parsed.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", parsed.UserID, user.ID)
	}
	if parsed.Username != "testuser" {
		t.Errorf("Username = %s, want testuser", parsed.Username)
	}
}

// TestGetUserFromToken_Invalid 测试无效令牌解析
func TestGetUserFromToken_Invalid(t *testing.T) {
	jwtMgr := newTestJWTManager()

	if _, err := jwtMgr.GetUserFromToken("not-a-jwt-token"); err == nil {
		t.Error("无效令牌应该返回错误")
	}

	// 用错误密钥签发的令牌
	otherMgr := newTestJWTManager()
	otherMgr.jwtKey = []byte("another-secret-key-for-jwt-testing-99")

	user := &database.User{Username: "testuser"}
	user.ID = 1
	token, _, err := otherMgr.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := jwtMgr.GetUserFromToken(token); err == nil {
		t.Error("用其他密钥签发的令牌应该验证失败")
	}
}

// TestRefreshTokenLifecycle 测试刷新令牌的登记、验证和吊销
func TestRefreshTokenLifecycle(t *testing.T) {
	jwtMgr := newTestJWTManager()

	// 覆盖全局实例，ValidateRefreshToken走单例
	jwtManagerOnce.Do(func() {})
	old := jwtManager
	jwtManager = jwtMgr
	defer func() { jwtManager = old }()

	token := jwtMgr.GenerateRefreshToken(42)

	userID, valid := ValidateRefreshToken(token)
	if !valid || userID != 42 {
		t.Errorf("ValidateRefreshToken() = (%d, %v), want (42, true)", userID, valid)
	}

	jwtMgr.RevokeRefreshToken(token)
	if _, valid := ValidateRefreshToken(token); valid {
		t.Error("吊销后的刷新令牌不应该有效")
	}

	// 过期令牌
	expired := jwtMgr.GenerateRefreshToken(7)
	jwtMgr.mu.Lock()
	jwtMgr.RefreshTokens[expired] = RefreshTokenInfo{UserID: 7, ExpiresAt: time.Now().Add(-time.Hour)}
	jwtMgr.mu.Unlock()

	if _, valid := ValidateRefreshToken(expired); valid {
		t.Error("过期的刷新令牌不应该有效")
	}
}
