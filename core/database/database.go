// core/database/database.go

package database

import (
	"fmt"
	"time"

	"BindBridge/core/common"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 数据库实例
var DB *gorm.DB

// InitDB 初始化数据库连接
// 从配置文件获取数据库文件路径，设置GORM日志级别和连接池参数
func InitDB() {
	dbPath := common.GetConfig("Database", "DB_PATH")
	if dbPath == "" {
		dbPath = "bindbridge.db" // 默认SQLite数据库文件
	}

	// 设置GORM日志级别
	logLevel := common.GetLogLevelFromEnv()
	newLogger := logger.Default.LogMode(logger.Silent)

	switch logLevel {
	case common.DEBUG:
		newLogger = logger.Default.LogMode(logger.Info)
	case common.WARN:
		newLogger = logger.Default.LogMode(logger.Warn)
	case common.ERROR:
		newLogger = logger.Default.LogMode(logger.Error)
	}

	// 连接SQLite数据库
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		common.NewLogger().Fatal("连接数据库失败: %v", err)
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		common.NewLogger().Fatal("获取数据库连接池失败: %v", err)
	}

	// sqlite 推荐连接数为1
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	DB = db
	common.NewLogger().Info("SQLite数据库连接成功")
}

// CheckConnection 检查数据库连接是否正常
func CheckConnection() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	var count int64
	return DB.Model(&User{}).Count(&count).Error
}

// InitializeDatabase 初始化数据库，创建必要的表和默认管理员用户
func InitializeDatabase() error {
	if err := DB.AutoMigrate(&User{}); err != nil {
		return err
	}

	return CreateDefaultAdminUser()
}
