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

// core/bind/installer.go
// 远程BIND安装流程，以事件流形式上报进度

package bind

import (
	"fmt"
	"strings"

	"BindBridge/core/common"
	"BindBridge/core/remote"
)

// InstallEvent 安装流程的单步进度事件
type InstallEvent struct {
	Step    string `json:"step"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// 事件状态
const (
	InstallStatusRunning = "running"
	InstallStatusSuccess = "success"
	InstallStatusError   = "error"
)

type pkgFamily string

const (
	pkgFamilyDeb pkgFamily = "deb"
	pkgFamilyRPM pkgFamily = "rpm"
)

// Installer 在远程服务器上安装并启用BIND
type Installer struct {
	logger  *common.Logger
	session remote.Session
}

// NewInstaller 创建安装器
func NewInstaller(session remote.Session) *Installer {
	return &Installer{
		logger:  common.NewLogger(),
		session: session,
	}
}

// detectOSFamily 通过os-release判断软件包体系
func (ins *Installer) detectOSFamily() (pkgFamily, error) {
	res, err := ins.session.Run("cat /etc/os-release")
	if err != nil {
		return "", err
	}

	content := strings.ToLower(res.Stdout)
	switch {
	case strings.Contains(content, "debian"), strings.Contains(content, "ubuntu"):
		return pkgFamilyDeb, nil
	case strings.Contains(content, "rhel"), strings.Contains(content, "centos"),
		strings.Contains(content, "fedora"), strings.Contains(content, "rocky"),
		strings.Contains(content, "almalinux"):
		return pkgFamilyRPM, nil
	default:
		return "", fmt.Errorf("无法识别的操作系统: %s", strings.TrimSpace(res.Stdout))
	}
}

// bindInstalled 检查BIND是否已安装
func (ins *Installer) bindInstalled(family pkgFamily) bool {
	var command string
	if family == pkgFamilyDeb {
		command = "dpkg -l | grep -w bind9"
	} else {
		command = "rpm -qa | grep '^bind-9\\|^bind-[0-9]'"
	}
	res, err := ins.session.Run(command)
	return err == nil && strings.TrimSpace(res.Stdout) != ""
}

// installPackages 安装BIND软件包
func (ins *Installer) installPackages(family pkgFamily) error {
	var command string
	if family == pkgFamilyDeb {
		command = "sudo apt-get update && sudo DEBIAN_FRONTEND=noninteractive apt-get install -y bind9 bind9utils bind9-doc"
	} else {
		command = "if which dnf >/dev/null 2>&1; then sudo dnf install -y bind bind-utils; else sudo yum install -y bind bind-utils; fi"
	}

	res, err := ins.session.Run(command)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("软件包安装失败: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// serviceUnit 返回对应体系的服务单元名
func serviceUnit(family pkgFamily) string {
	if family == pkgFamilyDeb {
		return "bind9"
	}
	return "named"
}

// enableService 设置开机自启并启动服务
func (ins *Installer) enableService(unit string) error {
	res, err := ins.session.Run(fmt.Sprintf("sudo systemctl enable %s && sudo systemctl start %s", unit, unit))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("服务启用失败: %s", strings.TrimSpace(res.Combined()))
	}
	return nil
}

// verifyService 验证服务处于运行状态
func (ins *Installer) verifyService(unit string) error {
	res, err := ins.session.Run(fmt.Sprintf("systemctl status %s", unit))
	if err != nil {
		return err
	}
	if !strings.Contains(res.Stdout, "active (running)") {
		return fmt.Errorf("服务 %s 未处于运行状态", unit)
	}
	return nil
}

// Run 执行安装流程并通过通道上报每一步进度
// 通道在流程结束（成功或首个致命错误）后关闭
func (ins *Installer) Run() <-chan InstallEvent {
	events := make(chan InstallEvent, 8)

	go func() {
		defer close(events)

		fail := func(step, message string) {
			ins.logger.Error("安装步骤 %s 失败: %s", step, message)
			events <- InstallEvent{Step: step, Status: InstallStatusError, Message: message}
		}

		events <- InstallEvent{Step: "detect_os", Status: InstallStatusRunning, Message: "正在检测操作系统"}
		family, err := ins.detectOSFamily()
		if err != nil {
			fail("detect_os", err.Error())
			return
		}
		events <- InstallEvent{Step: "detect_os", Status: InstallStatusSuccess, Message: fmt.Sprintf("检测到软件包体系: %s", family)}

		events <- InstallEvent{Step: "check_bind", Status: InstallStatusRunning, Message: "正在检查BIND安装状态"}
		if ins.bindInstalled(family) {
			events <- InstallEvent{Step: "check_bind", Status: InstallStatusSuccess, Message: "BIND已安装"}
			events <- InstallEvent{Step: "complete", Status: InstallStatusSuccess, Message: "无需安装"}
			return
		}
		events <- InstallEvent{Step: "check_bind", Status: InstallStatusSuccess, Message: "BIND未安装，准备安装"}

		events <- InstallEvent{Step: "install", Status: InstallStatusRunning, Message: "正在安装BIND软件包"}
		if err := ins.installPackages(family); err != nil {
			fail("install", err.Error())
			return
		}
		events <- InstallEvent{Step: "install", Status: InstallStatusSuccess, Message: "软件包安装完成"}

		unit := serviceUnit(family)

		events <- InstallEvent{Step: "enable_service", Status: InstallStatusRunning, Message: fmt.Sprintf("正在启用服务 %s", unit)}
		if err := ins.enableService(unit); err != nil {
			fail("enable_service", err.Error())
			return
		}
		events <- InstallEvent{Step: "enable_service", Status: InstallStatusSuccess, Message: "服务已启用并启动"}

		events <- InstallEvent{Step: "verify", Status: InstallStatusRunning, Message: "正在验证服务状态"}
		if err := ins.verifyService(unit); err != nil {
			fail("verify", err.Error())
			return
		}
		events <- InstallEvent{Step: "verify", Status: InstallStatusSuccess, Message: "服务运行正常"}

		events <- InstallEvent{Step: "complete", Status: InstallStatusSuccess, Message: "BIND安装完成"}
		ins.logger.Info("远程BIND安装流程完成")
	}()

	return events
}
