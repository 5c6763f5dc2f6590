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
// core/common/daemon.go

package common

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// DaemonEnvKey 守护进程模式标记环境变量
const DaemonEnvKey = "BINDBRIDGE_DAEMON"

// DaemonManager 守护进程管理器
type DaemonManager struct {
	pidFile string
	logger  *Logger
}

// NewDaemonManager 创建新的守护进程管理器
func NewDaemonManager(pidFile string) *DaemonManager {
	return &DaemonManager{
		pidFile: pidFile,
		logger:  NewLogger(),
	}
}

// StartDaemon 启动守护进程
func (d *DaemonManager) StartDaemon(startArgs []string) error {
	if d.IsRunning() {
		return fmt.Errorf("服务已经在运行中")
	}

	args := []string{os.Args[0], "start"}
	args = append(args, startArgs...)

	env := os.Environ()
	env = append(env, DaemonEnvKey+"=1")

	attr := &os.ProcAttr{
		Dir:   ".",
		Env:   env,
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(args[0], args, attr)
	if err != nil {
		return fmt.Errorf("启动守护进程失败: %v", err)
	}

	if err := d.writePIDFile(process.Pid); err != nil {
		process.Kill()
		return fmt.Errorf("写入PID文件失败: %v", err)
	}

	d.logger.Info("守护进程已启动，PID: %d", process.Pid)
	return nil
}

// StopDaemon 停止守护进程
func (d *DaemonManager) StopDaemon() error {
	pid, err := d.readPIDFile()
	if err != nil {
		return fmt.Errorf("读取PID文件失败: %v", err)
	}

	if pid <= 0 {
		return fmt.Errorf("服务未运行")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		d.removePIDFile()
		return fmt.Errorf("找不到进程 %d", pid)
	}

	// 先尝试优雅终止
	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("终止进程失败: %v", err)
		}
	}

	d.removePIDFile()
	d.logger.Info("服务已停止，PID: %d", pid)
	return nil
}

// RestartDaemon 重启守护进程
func (d *DaemonManager) RestartDaemon(startArgs []string) error {
	if err := d.StopDaemon(); err != nil {
		d.logger.Warn("停止服务时出错: %v", err)
	}

	// 等待进程完全停止
	time.Sleep(time.Second)

	return d.StartDaemon(startArgs)
}

// IsRunning 检查服务是否正在运行
func (d *DaemonManager) IsRunning() bool {
	pid, err := d.readPIDFile()
	if err != nil || pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// 发送信号0检查进程是否存在
	return process.Signal(syscall.Signal(0)) == nil
}

// GetStatus 获取服务状态
func (d *DaemonManager) GetStatus() (string, int) {
	pid, err := d.readPIDFile()
	if err != nil || pid <= 0 {
		return "未运行", 0
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return "未运行", 0
	}

	if process.Signal(syscall.Signal(0)) != nil {
		return "未运行", 0
	}

	return "运行中", pid
}

func (d *DaemonManager) writePIDFile(pid int) error {
	dir := filepath.Dir(d.pidFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(d.pidFile, []byte(strconv.Itoa(pid)), 0644)
}

func (d *DaemonManager) readPIDFile() (int, error) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, err
	}

	return pid, nil
}

func (d *DaemonManager) removePIDFile() {
	os.Remove(d.pidFile)
}

// SetupSignalHandlers 设置信号处理
// cleanup 在收到终止信号时调用
func (d *DaemonManager) SetupSignalHandlers(cleanup func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigChan {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				d.logger.Info("收到终止信号: %v", sig)
				if cleanup != nil {
					cleanup()
				}
				d.removePIDFile()
				os.Exit(0)
			case syscall.SIGHUP:
				d.logger.Info("收到重载信号: %v", sig)
			}
		}
	}()
}
