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
// cmd/main.go

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"BindBridge/core/common"
	"BindBridge/core/database"
	"BindBridge/core/webapi/api"

	"github.com/gin-gonic/gin"
)

const (
	// Version 应用程序版本
	Version = "1.0.0"
	// DefaultConfigPath 默认配置文件路径
	DefaultConfigPath = "config/bindbridge.conf"
	// DefaultPIDFile 默认PID文件路径
	DefaultPIDFile = "bindbridge.pid"
)

// CLIConfig 命令行配置
type CLIConfig struct {
	Command    string
	Daemon     bool
	Foreground bool
	ConfigPath string
	PIDFile    string
	ShowHelp   bool
	ShowVer    bool
}

var (
	cliConfig CLIConfig
	logger    *common.Logger
)

func init() {
	flag.Usage = printHelp
}

func main() {
	parseArgs()

	if cliConfig.ShowHelp {
		printHelp()
		os.Exit(0)
	}

	if cliConfig.ShowVer {
		printVersion()
		os.Exit(0)
	}

	switch cliConfig.Command {
	case "start", "":
		if err := cmdStart(); err != nil {
			log.Fatalf("启动失败: %v", err)
		}
	case "stop":
		if err := cmdStop(); err != nil {
			log.Fatalf("停止失败: %v", err)
		}
	case "restart":
		if err := cmdRestart(); err != nil {
			log.Fatalf("重启失败: %v", err)
		}
	case "status":
		if err := cmdStatus(); err != nil {
			log.Fatalf("获取状态失败: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令: %s\n", cliConfig.Command)
		printHelp()
		os.Exit(1)
	}
}

// parseArgs 解析命令行参数
func parseArgs() {
	// 第一个非选项参数作为命令
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		cliConfig.Command = os.Args[1]
		os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
	}

	flag.BoolVar(&cliConfig.Daemon, "d", false, "后台运行模式")
	flag.BoolVar(&cliConfig.Daemon, "daemon", false, "后台运行模式")
	flag.BoolVar(&cliConfig.Foreground, "f", false, "前台运行模式")
	flag.BoolVar(&cliConfig.Foreground, "foreground", false, "前台运行模式")
	flag.StringVar(&cliConfig.ConfigPath, "c", DefaultConfigPath, "配置文件路径")
	flag.StringVar(&cliConfig.ConfigPath, "config", DefaultConfigPath, "配置文件路径")
	flag.StringVar(&cliConfig.PIDFile, "p", DefaultPIDFile, "PID文件路径")
	flag.StringVar(&cliConfig.PIDFile, "pidfile", DefaultPIDFile, "PID文件路径")
	flag.BoolVar(&cliConfig.ShowHelp, "h", false, "显示帮助信息")
	flag.BoolVar(&cliConfig.ShowHelp, "help", false, "显示帮助信息")
	flag.BoolVar(&cliConfig.ShowVer, "v", false, "显示版本信息")
	flag.BoolVar(&cliConfig.ShowVer, "version", false, "显示版本信息")

	flag.Parse()

	// 没有指定运行模式时默认前台运行
	if !cliConfig.Daemon && !cliConfig.Foreground {
		cliConfig.Foreground = true
	}
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("BindBridge - 远程BIND区域管理器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  bindbridge [命令] [选项]")
	fmt.Println()
	fmt.Println("命令:")
	fmt.Println("  start       启动服务 (默认)")
	fmt.Println("  stop        停止服务")
	fmt.Println("  restart     重启服务")
	fmt.Println("  status      查看服务状态")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  -d, --daemon          后台运行模式 (用于systemd服务)")
	fmt.Println("  -f, --foreground      前台运行模式 (默认)")
	fmt.Println("  -c, --config PATH     指定配置文件路径 (默认: config/bindbridge.conf)")
	fmt.Println("  -p, --pidfile PATH    指定PID文件路径 (默认: bindbridge.pid)")
	fmt.Println("  -v, --version         显示版本信息")
	fmt.Println("  -h, --help            显示帮助信息")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  bindbridge                   前台运行服务")
	fmt.Println("  bindbridge start -d          后台运行服务")
	fmt.Println("  bindbridge stop              停止服务")
	fmt.Println("  bindbridge -c /etc/bindbridge/bindbridge.conf  使用指定配置文件")
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("BindBridge 版本 %s\n", Version)
	fmt.Println("远程BIND区域管理器")
	fmt.Println("许可证: AGPLv3")
}

// cmdStart 启动服务命令
func cmdStart() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	// 守护进程模式启动的子进程直接运行服务
	if os.Getenv(common.DaemonEnvKey) == "1" {
		return runService(daemonManager)
	}

	if daemonManager.IsRunning() {
		status, pid := daemonManager.GetStatus()
		return fmt.Errorf("服务已经在运行中 (状态: %s, PID: %d)", status, pid)
	}

	if cliConfig.Daemon {
		fmt.Println("正在启动守护进程...")
		if err := daemonManager.StartDaemon(buildStartArgsFromCLI()); err != nil {
			return err
		}
		fmt.Println("守护进程启动成功")
		return nil
	}

	return runService(daemonManager)
}

// runService 运行服务（前台和后台共用）
func runService(daemonManager *common.DaemonManager) error {
	logger = common.NewLogger()

	daemonManager.SetupSignalHandlers(func() {
		logger.Info("正在关闭服务...")
		os.Remove(cliConfig.PIDFile)
	})

	logger.Info("BindBridge 服务启动中...")
	logger.Info("版本: %s", Version)
	logger.Info("配置文件: %s", cliConfig.ConfigPath)

	// 加载环境变量和配置文件
	if cliConfig.ConfigPath != DefaultConfigPath {
		os.Setenv(common.ConfigPathEnvKey, cliConfig.ConfigPath)
	}
	common.LoadEnv()

	// 初始化数据库
	database.InitDB()
	if err := database.InitializeDatabase(); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 设置GIN运行模式
	ginMode := common.GetConfig("APIServer", "GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	api.SetupRoutes(engine)

	host := common.GetConfig("APIServer", "API_SERVER_IP_ADDR")
	if host == "" {
		host = "0.0.0.0"
	}
	port := common.GetConfigInt("APIServer", "API_SERVER_PORT", 8086)
	addr := fmt.Sprintf("%s:%d", host, port)

	logger.Info("API服务器监听地址: %s", addr)
	if err := engine.Run(addr); err != nil {
		return fmt.Errorf("API服务器启动失败: %v", err)
	}

	return nil
}

// cmdStop 停止服务命令
func cmdStop() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	status, pid := daemonManager.GetStatus()
	if status != "运行中" {
		return fmt.Errorf("服务未运行")
	}

	fmt.Printf("正在停止服务 (PID: %d)...\n", pid)

	if err := daemonManager.StopDaemon(); err != nil {
		return err
	}

	fmt.Println("服务已停止")
	return nil
}

// cmdRestart 重启服务命令
func cmdRestart() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	fmt.Println("正在重启服务...")

	if err := daemonManager.RestartDaemon(buildStartArgsFromCLI()); err != nil {
		return err
	}

	fmt.Println("服务重启成功")
	return nil
}

// cmdStatus 查看服务状态命令
func cmdStatus() error {
	daemonManager := common.NewDaemonManager(cliConfig.PIDFile)

	status, pid := daemonManager.GetStatus()

	fmt.Printf("服务状态: %s\n", status)
	if pid > 0 {
		fmt.Printf("进程ID: %d\n", pid)
	}

	return nil
}

// buildStartArgsFromCLI 从当前命令行构建启动参数
func buildStartArgsFromCLI() []string {
	var args []string

	if cliConfig.Daemon {
		args = append(args, "-d")
	} else {
		args = append(args, "-f")
	}
	if cliConfig.ConfigPath != DefaultConfigPath {
		args = append(args, "-c", cliConfig.ConfigPath)
	}
	if cliConfig.PIDFile != DefaultPIDFile {
		args = append(args, "-p", cliConfig.PIDFile)
	}

	return args
}
