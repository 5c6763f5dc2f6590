// core/database/usersdb.go
// 用户存储与凭据验证

package database

import (
	"fmt"
	"strings"

	"BindBridge/core/common"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultAdminUsername 默认管理员用户名，该用户不可删除
const defaultAdminUsername = "admin"

// User 用户模型
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email"`
	Password string `json:"-" gorm:"column:password;not null"` // 不在JSON中输出
}

// isBcryptHash 判断密码是否已经是bcrypt哈希
func isBcryptHash(password string) bool {
	return strings.HasPrefix(password, "$2a$") ||
		strings.HasPrefix(password, "$2b$") ||
		strings.HasPrefix(password, "$2y$")
}

// hashPassword 对明文密码做bcrypt哈希
// 已经是bcrypt格式的密码原样返回，避免二次哈希
func hashPassword(password string) (string, error) {
	if isBcryptHash(password) {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("加密密码失败: %v", err)
	}
	return string(hashed), nil
}

// CreateUser 创建用户
func CreateUser(user *User) error {
	// 检查用户名是否已存在
	var existingUser User
	if err := DB.Where("username = ?", user.Username).First(&existingUser).Error; err == nil {
		return fmt.Errorf("用户名已存在")
	}

	// 检查邮箱是否已存在（邮箱可选）
	if user.Email != "" {
		if err := DB.Where("email = ?", user.Email).First(&existingUser).Error; err == nil {
			return fmt.Errorf("邮箱已存在")
		}
	}

	hashed, err := hashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := DB.Create(user).Error; err != nil {
		return fmt.Errorf("创建用户失败: %v", err)
	}

	return nil
}

// GetUserByID 根据ID获取用户
func GetUserByID(id uint) (*User, error) {
	var user User
	if err := DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("用户不存在")
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByUsername 根据用户名获取用户
func GetUserByUsername(username string) (*User, error) {
	var user User
	if err := DB.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("用户不存在")
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail 根据邮箱获取用户
func GetUserByEmail(email string) (*User, error) {
	var user User
	if err := DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("用户不存在")
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUser 更新用户信息
// 密码字段总是以bcrypt哈希形式落库
func UpdateUser(user *User) error {
	hashed, err := hashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := DB.Save(user).Error; err != nil {
		return fmt.Errorf("更新用户失败: %v", err)
	}
	return nil
}

// DeleteUser 删除用户
// 默认管理员用户不可删除
func DeleteUser(id uint) error {
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}
	if user.Username == defaultAdminUsername {
		return fmt.Errorf("不能删除默认管理员用户")
	}

	if err := DB.Delete(&User{}, id).Error; err != nil {
		return fmt.Errorf("删除用户失败: %v", err)
	}
	return nil
}

// ValidateUserWithDB 使用数据库验证用户凭据
func ValidateUserWithDB(username, password string) (*User, bool) {
	var user User
	if err := DB.Where("username = ?", username).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			common.NewLogger().Warn("查询用户失败: %v", err)
		}
		return nil, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, false
	}

	return &user, true
}

// GetAllUsers 获取所有用户（分页）
func GetAllUsers(page, pageSize int) ([]User, int64, error) {
	var users []User
	var total int64

	offset := (page - 1) * pageSize

	DB.Model(&User{}).Count(&total)

	if err := DB.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("查询用户列表失败: %v", err)
	}

	return users, total, nil
}

// CreateDefaultAdminUser 创建默认管理员用户
func CreateDefaultAdminUser() error {
	username := defaultAdminUsername
	password := "admin123"

	var count int64
	DB.Model(&User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return nil
	}

	user := &User{
		Username: username,
		Email:    "admin@bindbridge.local",
		Password: password,
	}

	if err := CreateUser(user); err != nil {
		return fmt.Errorf("创建管理员用户失败: %v", err)
	}

	common.NewLogger().Info("默认管理员用户创建成功: %s / %s", username, password)
	return nil
}
