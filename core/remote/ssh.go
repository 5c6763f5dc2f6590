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

// core/remote/ssh.go
// 基于 golang.org/x/crypto/ssh 的远程会话实现

package remote

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"BindBridge/core/common"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// 固定连接超时，无单命令超时（挂起的远程命令会阻塞整个工作流）
const dialTimeout = 10 * time.Second

// SSHSession SSH远程会话
type SSHSession struct {
	client *ssh.Client
	logger *common.Logger
}

// Dial 建立到远程BIND服务器的SSH连接
// 认证失败归类为ErrAuthenticationFailed，连接失败归类为ErrConnectionRefused
func Dial(cfg ClientConfig) (*SSHSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var authMethods []ssh.AuthMethod

	if cfg.KeyPath != "" {
		keyBytes, err := os.ReadFile(expandHome(cfg.KeyPath))
		if err != nil {
			return nil, fmt.Errorf("读取SSH私钥失败: %v", err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("解析SSH私钥失败: %v", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	} else {
		authMethods = append(authMethods, ssh.Password(cfg.Password))
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}

	sshConfig := &ssh.ClientConfig{
		User: cfg.User,
		Auth: authMethods,
		// 与原有部署行为保持一致：首次连接自动接受主机密钥
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", port))
	client, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, classifyDialError(err)
	}

	return &SSHSession{
		client: client,
		logger: common.NewLogger(),
	}, nil
}

// classifyDialError 将底层拨号错误归类为会话错误
func classifyDialError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") {
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "no route to host") {
		return fmt.Errorf("%w: %v", ErrConnectionRefused, err)
	}
	return fmt.Errorf("连接远程服务器失败: %v", err)
}

// expandHome 展开路径中的~前缀
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}

// Run 执行远程命令
func (s *SSHSession) Run(command string) (*Result, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("创建SSH会话失败: %v", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	s.logger.Debug("执行远程命令: %s", command)

	result := &Result{}
	if err := session.Run(command); err != nil {
		exitErr, ok := err.(*ssh.ExitError)
		if !ok {
			// 通道级失败，命令没有执行完
			return nil, fmt.Errorf("执行远程命令失败: %v", err)
		}
		result.ExitCode = exitErr.ExitStatus()
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result, nil
}

// Upload 通过SFTP将数据写入远程文件
func (s *SSHSession) Upload(data []byte, remotePath string) error {
	sftpClient, err := sftp.NewClient(s.client)
	if err != nil {
		return fmt.Errorf("创建SFTP客户端失败: %v", err)
	}
	defer sftpClient.Close()

	file, err := sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("创建远程文件失败: %v", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("写入远程文件失败: %v", err)
	}

	return nil
}

// ReadFile 通过SFTP读取远程文件
func (s *SSHSession) ReadFile(remotePath string) ([]byte, error) {
	sftpClient, err := sftp.NewClient(s.client)
	if err != nil {
		return nil, fmt.Errorf("创建SFTP客户端失败: %v", err)
	}
	defer sftpClient.Close()

	file, err := sftpClient.Open(remotePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, remotePath)
		}
		return nil, fmt.Errorf("打开远程文件失败: %v", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取远程文件失败: %v", err)
	}

	return content, nil
}

// Close 关闭SSH连接
func (s *SSHSession) Close() error {
	return s.client.Close()
}
