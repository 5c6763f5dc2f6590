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

// core/remote/session.go
// 远程会话抽象

package remote

import (
	"errors"
	"fmt"
)

// 远程会话错误
var (
	// ErrAuthenticationFailed SSH认证失败
	ErrAuthenticationFailed = errors.New("认证失败")
	// ErrConnectionRefused 无法连接远程服务器
	ErrConnectionRefused = errors.New("连接被拒绝")
	// ErrFileNotFound 远程文件不存在
	ErrFileNotFound = errors.New("远程文件不存在")
)

// Result 远程命令执行结果
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined 返回stdout和stderr拼接后的输出
func (r *Result) Combined() string {
	return r.Stdout + r.Stderr
}

// Session 远程会话能力
// 每个工作流打开一个会话，顺序执行远程调用，任何退出路径都必须Close
type Session interface {
	// Run 执行远程命令，返回stdout、stderr和退出码
	// 命令本身执行失败（非零退出码）不作为error返回，由调用方检查Result
	Run(command string) (*Result, error)

	// Upload 将数据写入远程文件
	Upload(data []byte, remotePath string) error

	// ReadFile 读取远程文件内容，文件不存在时返回ErrFileNotFound
	ReadFile(remotePath string) ([]byte, error)

	// Close 关闭会话
	Close() error
}

// ClientConfig SSH连接配置
type ClientConfig struct {
	Host     string
	Port     int
	User     string
	KeyPath  string // 私钥文件路径，与Password二选一
	Password string
}

// Validate 检查连接配置是否完整
func (c *ClientConfig) Validate() error {
	if c.Host == "" || c.User == "" {
		return fmt.Errorf("SSH连接配置不完整: 缺少主机或用户名")
	}
	if c.KeyPath == "" && c.Password == "" {
		return fmt.Errorf("SSH连接配置不完整: 需要私钥或密码")
	}
	return nil
}
