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

// core/bind/creator_test.go
// 建区编排测试文件

package bind

import (
	"errors"
	"strings"
	"testing"

	"BindBridge/core/remote"
)

// debianServer 构造一台已配置好数据目录的Debian测试服务器
func debianServer() *fakeSession {
	session := newFakeSession()
	session.files["/etc/debian_version"] = "12.5\n"
	session.files["/etc/bind/named.conf"] = `options {
    directory "/var/cache/bind";
};
include "/etc/bind/named.conf.local";
`
	session.files["/etc/bind/named.conf.local"] = "// 本地区域声明\n"
	return session
}

func validRequest() CreateZoneRequest {
	return CreateZoneRequest{
		Name:       "newzone.example.com",
		PrimaryNS:  "ns1.provider.net",
		AdminEmail: "admin@newzone.example.com",
	}
}

// TestCreateZone_Success 测试完整建区流程
func TestCreateZone_Success(t *testing.T) {
	session := debianServer()
	m := NewManager(DefaultConfig(), session)

	result, err := m.CreateZone(validRequest())
	if err != nil {
		t.Fatalf("建区失败: %v", err)
	}

	if result.Zone != "newzone.example.com" {
		t.Errorf("区域名期望 newzone.example.com, 实际 %s", result.Zone)
	}
	if result.ZoneFilePath != "/var/cache/bind/db.newzone.example.com" {
		t.Errorf("区域文件路径期望 /var/cache/bind/db.newzone.example.com, 实际 %s", result.ZoneFilePath)
	}
	if result.CreatedWorkDir {
		t.Errorf("数据目录已配置, 不应报告全局配置变更")
	}

	// 区域文件已落盘且内容可解析
	zoneText, exists := session.files[result.ZoneFilePath]
	if !exists {
		t.Fatalf("区域文件未落盘: %s", result.ZoneFilePath)
	}
	if _, err := ParseZoneRecords(zoneText, result.Zone); err != nil {
		t.Errorf("落盘的区域文件无法解析: %v", err)
	}

	// 区域声明已追加到配置文件
	localConf := session.files["/etc/bind/named.conf.local"]
	if !strings.Contains(localConf, `zone "newzone.example.com"`) {
		t.Errorf("配置文件缺少区域声明:\n%s", localConf)
	}
	if !strings.Contains(localConf, `file "/var/cache/bind/db.newzone.example.com"`) {
		t.Errorf("区域声明缺少文件路径:\n%s", localConf)
	}

	// 备份已创建且保留原始内容
	backup, exists := session.files[result.BackupPath]
	if !exists {
		t.Fatalf("配置备份未创建: %s", result.BackupPath)
	}
	if backup != "// 本地区域声明\n" {
		t.Errorf("备份内容与变更前不一致: %q", backup)
	}
}

// TestCreateZone_AlreadyExists 测试重名区域拒绝
func TestCreateZone_AlreadyExists(t *testing.T) {
	session := debianServer()
	session.files["/etc/bind/named.conf.local"] = `zone "newzone.example.com" {
    type master;
    file "/var/cache/bind/db.newzone.example.com";
};
`

	m := NewManager(DefaultConfig(), session)
	_, err := m.CreateZone(validRequest())
	if !errors.Is(err, ErrZoneAlreadyExists) {
		t.Fatalf("期望 ErrZoneAlreadyExists, 实际 %v", err)
	}

	// 拒绝发生在任何写操作之前
	if session.ranCommand("sudo cp -p") {
		t.Errorf("重名拒绝前不应创建备份")
	}
}

// TestCreateZone_CheckconfRollback 测试配置校验失败时的回滚
func TestCreateZone_CheckconfRollback(t *testing.T) {
	session := debianServer()
	originalConf := session.files["/etc/bind/named.conf.local"]

	session.override("named-checkconf", &remote.Result{
		Stdout:   "/etc/bind/named.conf.local:5: unknown option 'zoon'",
		ExitCode: 1,
	})

	m := NewManager(DefaultConfig(), session)
	_, err := m.CreateZone(validRequest())

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("期望 ValidationError, 实际 %v", err)
	}

	// 配置文件已从备份恢复为原始内容
	if session.files["/etc/bind/named.conf.local"] != originalConf {
		t.Errorf("回滚后配置文件内容期望 %q, 实际 %q",
			originalConf, session.files["/etc/bind/named.conf.local"])
	}

	// 已落盘的区域文件被清理
	if _, exists := session.files["/var/cache/bind/db.newzone.example.com"]; exists {
		t.Errorf("回滚后区域文件应被删除")
	}

	// 回滚后不触发重载
	if session.ranCommand("sudo rndc reload") {
		t.Errorf("回滚后不应触发重载")
	}
}

// TestCreateZone_EnsuresWorkingDirectory 测试数据目录未配置时的全局配置写入
func TestCreateZone_EnsuresWorkingDirectory(t *testing.T) {
	session := newFakeSession()
	session.files["/etc/debian_version"] = "12.5\n"
	session.files["/etc/bind/named.conf"] = `include "/etc/bind/named.conf.local";
`
	session.files["/etc/bind/named.conf.local"] = ""

	m := NewManager(DefaultConfig(), session)
	result, err := m.CreateZone(validRequest())
	if err != nil {
		t.Fatalf("建区失败: %v", err)
	}

	if !result.CreatedWorkDir {
		t.Errorf("数据目录未配置时应报告全局配置变更")
	}

	// options配置片段已写入
	options := session.files["/etc/bind/named.conf.bindbridge-options"]
	if !strings.Contains(options, `directory "/var/cache/bind"`) {
		t.Errorf("options配置片段内容错误: %q", options)
	}

	// 主配置最顶部插入了include
	mainConf := session.files["/etc/bind/named.conf"]
	if !strings.HasPrefix(mainConf, `include "/etc/bind/named.conf.bindbridge-options";`) {
		t.Errorf("主配置应以options include开头:\n%s", mainConf)
	}
}
