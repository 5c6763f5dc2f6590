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

// core/bind/models.go
// 远程BIND管理数据结构定义

package bind

import (
	"BindBridge/core/common"
	"BindBridge/core/remote"
)

// ZoneKind 区域类型
type ZoneKind string

// 区域类型常量
const (
	KindMaster  ZoneKind = "master"
	KindSlave   ZoneKind = "slave"
	KindHint    ZoneKind = "hint"
	KindForward ZoneKind = "forward"
	KindUnknown ZoneKind = "unknown"
)

// Zone 区域信息
// 每次发现调用重新计算，不跨请求缓存
type Zone struct {
	Name string   `json:"name"`
	Kind ZoneKind `json:"type"`
	File string   `json:"file"` // 绝对路径；探测失败时保留相对路径
}

// Record DNS记录
// ID 由 名称_类型 派生，同名同类型的多条记录共享ID，不能当作主键使用
type Record struct {
	Name   string   `json:"name"` // 相对名称，区域顶点为 "@"
	Type   string   `json:"type"`
	TTL    uint32   `json:"ttl"`
	Values []string `json:"values"`
	FQDN   string   `json:"fqdn"`
	ID     string   `json:"id"`
}

// Config 引擎配置
// 每次引擎调用显式传入，不持有进程级可变状态
type Config struct {
	// NamedConfPath 远程服务器上named.conf主配置文件路径
	NamedConfPath string
	// FallbackConfPaths 主配置不可读时依次尝试的备选路径
	FallbackConfPaths []string
	// ZoneBaseDirs 相对区域文件路径的探测基目录（按顺序）
	ZoneBaseDirs []string
	// ScratchDir 暂存目录，必须全局可写
	ScratchDir string
}

// DefaultConfig 返回默认引擎配置
func DefaultConfig() Config {
	return Config{
		NamedConfPath:     "/etc/bind/named.conf",
		FallbackConfPaths: []string{"/etc/named.conf", "/var/named/named.conf"},
		ZoneBaseDirs:      []string{"/var/named", "/etc/bind", "/var/cache/bind"},
		ScratchDir:        "/tmp",
	}
}

// Layout 远程服务器上BIND的目录布局
// 仅支持Debian系和RHEL系两种固定布局
type Layout struct {
	Name            string // debian / rhel
	MainConfPath    string // 主配置文件
	LocalConfPath   string // 追加zone配置的目标文件
	WorkingDir      string // 区域文件默认数据目录
	CacheDir        string // BIND期望存在的二级缓存目录
	ServiceUser     string // BIND服务账户
	ServiceGroup    string
	ServiceUnit     string // systemd服务单元名
	OptionsConfPath string // 引擎生成的options配置文件路径
}

// CreateZoneRequest 区域创建请求
type CreateZoneRequest struct {
	Name       string `json:"name"`
	PrimaryNS  string `json:"primary_ns"`
	AdminEmail string `json:"admin_email"`
	GlueIP     string `json:"glue_ip,omitempty"` // 仅当主NS位于新区域内时必填
}

// CreateZoneResult 区域创建结果
type CreateZoneResult struct {
	Zone           string `json:"zone"`
	ZoneFilePath   string `json:"zone_file"`
	ConfigPath     string `json:"config_file"`
	BackupPath     string `json:"backup_file"` // 配置备份保留在磁盘上，不自动删除
	CreatedWorkDir bool   `json:"created_working_dir"`
}

// Manager 远程BIND管理器
// 每个请求创建一个Manager，持有一个远程会话，远程调用严格串行
type Manager struct {
	logger  *common.Logger
	cfg     Config
	session remote.Session
	layout  *Layout // DetectLayout缓存，仅本会话有效
}

// NewManager 创建远程BIND管理器实例
func NewManager(cfg Config, session remote.Session) *Manager {
	return &Manager{
		logger:  common.NewLogger(),
		cfg:     cfg,
		session: session,
	}
}

// ConfigPath 返回当前生效的主配置文件路径
// 发现过程采用了备选路径时，返回被采用的那个
func (m *Manager) ConfigPath() string {
	return m.cfg.NamedConfPath
}
