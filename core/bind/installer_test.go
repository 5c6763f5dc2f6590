// core/bind/installer_test.go
// 远程BIND安装流程测试文件

package bind

import (
	"testing"

	"BindBridge/core/remote"
)

// collectEvents 读取安装事件流直到通道关闭
func collectEvents(events <-chan InstallEvent) []InstallEvent {
	var collected []InstallEvent
	for event := range events {
		collected = append(collected, event)
	}
	return collected
}

// lastEvent 返回最后一个事件
func lastEvent(events []InstallEvent) InstallEvent {
	return events[len(events)-1]
}

// TestInstaller_AlreadyInstalled 测试BIND已安装时直接完成
func TestInstaller_AlreadyInstalled(t *testing.T) {
	session := newFakeSession()
	session.files["/etc/os-release"] = "ID=ubuntu\nID_LIKE=debian\n"
	session.override("dpkg -l", &remote.Result{
		Stdout: "ii  bind9  1:9.18.28-0ubuntu0.22.04.1  amd64  Internet Domain Name Server\n",
	})

	events := collectEvents(NewInstaller(session).Run())

	last := lastEvent(events)
	if last.Step != "complete" || last.Status != InstallStatusSuccess {
		t.Fatalf("期望以 complete/success 结束, 实际 %+v", last)
	}

	// 已安装时不应执行安装命令
	if session.ranCommand("sudo apt-get") {
		t.Errorf("BIND已安装时不应执行软件包安装")
	}
}

// TestInstaller_FreshInstallRPM 测试RPM体系的全新安装
func TestInstaller_FreshInstallRPM(t *testing.T) {
	session := newFakeSession()
	session.files["/etc/os-release"] = "ID=\"rocky\"\nID_LIKE=\"rhel centos fedora\"\n"
	session.override("systemctl status named", &remote.Result{
		Stdout: "named.service - Berkeley Internet Name Domain (DNS)\n   Active: active (running)\n",
	})

	events := collectEvents(NewInstaller(session).Run())

	last := lastEvent(events)
	if last.Step != "complete" || last.Status != InstallStatusSuccess {
		t.Fatalf("期望以 complete/success 结束, 实际 %+v", last)
	}

	steps := make(map[string]bool)
	for _, event := range events {
		steps[event.Step] = true
	}
	for _, step := range []string{"detect_os", "check_bind", "install", "enable_service", "verify", "complete"} {
		if !steps[step] {
			t.Errorf("事件流缺少步骤 %s", step)
		}
	}

	if !session.ranCommand("if which dnf") {
		t.Errorf("RPM体系应通过dnf或yum安装")
	}
}

// TestInstaller_UnknownOS 测试无法识别的操作系统
func TestInstaller_UnknownOS(t *testing.T) {
	session := newFakeSession()
	session.files["/etc/os-release"] = "ID=solaris\n"

	events := collectEvents(NewInstaller(session).Run())

	last := lastEvent(events)
	if last.Step != "detect_os" || last.Status != InstallStatusError {
		t.Fatalf("期望以 detect_os/error 结束, 实际 %+v", last)
	}
}

// TestInstaller_ServiceVerifyFailure 测试服务验证失败终止流程
func TestInstaller_ServiceVerifyFailure(t *testing.T) {
	session := newFakeSession()
	session.files["/etc/os-release"] = "ID=debian\n"
	session.override("systemctl status bind9", &remote.Result{
		Stdout:   "bind9.service\n   Active: failed\n",
		ExitCode: 3,
	})

	events := collectEvents(NewInstaller(session).Run())

	last := lastEvent(events)
	if last.Step != "verify" || last.Status != InstallStatusError {
		t.Fatalf("期望以 verify/error 结束, 实际 %+v", last)
	}
}
