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

// core/bind/writer.go
// 事务性区域文件写入：先验证后提交

package bind

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// checkZoneOutputOK 判断named-checkzone输出是否表示成功
// 不同版本的输出不同（"OK" 或 "loaded serial"），都按成功处理
// 按子串而非退出码判断：观测到的工具版本会在退出码0的同时输出告警文本
func checkZoneOutputOK(output string) bool {
	return strings.Contains(output, "OK") || strings.Contains(output, "loaded serial")
}

// scratchPath 根据区域名确定性地派生暂存文件路径
// 暂存文件放在全局可写的临时目录，绝不放在BIND的受保护目录下，
// 避免写入这一步本身就因权限失败
func (m *Manager) scratchPath(zoneName string) string {
	sum := sha1.Sum([]byte(zoneName))
	return fmt.Sprintf("%s/zone-%x.db", m.cfg.ScratchDir, sum[:8])
}

// stageZoneFile 写入暂存文件并运行离线区域验证器
// 验证失败时删除暂存文件并返回ValidationError，此时线上文件未被触碰
func (m *Manager) stageZoneFile(zoneName, newText string) (string, error) {
	scratch := m.scratchPath(zoneName)

	if err := m.session.Upload([]byte(newText), scratch); err != nil {
		return "", &WriteError{Details: err.Error()}
	}

	res, err := m.session.Run(fmt.Sprintf("named-checkzone %s %s", zoneName, scratch))
	if err != nil {
		m.session.Run(fmt.Sprintf("rm -f %s", scratch))
		return "", err
	}

	if !checkZoneOutputOK(res.Combined()) {
		m.session.Run(fmt.Sprintf("rm -f %s", scratch))
		m.logger.Error("区域 %s 验证失败: %s", zoneName, strings.TrimSpace(res.Combined()))
		return "", &ValidationError{Details: strings.TrimSpace(res.Combined())}
	}

	return scratch, nil
}

// placeZoneFile 将验证通过的暂存文件移动到目标位置
// 移动后修正属主为BIND服务账户并设置组可读权限
func (m *Manager) placeZoneFile(scratch, targetPath string) error {
	layout, err := m.DetectLayout()
	if err != nil {
		return err
	}

	return m.runChecked(fmt.Sprintf("sudo mv %s %s && sudo chown %s:%s %s && sudo chmod 644 %s",
		scratch, targetPath,
		layout.ServiceUser, layout.ServiceGroup, targetPath,
		targetPath))
}

// reloadZone 触发单区域在线重载
// 重载是尽力而为的：此时写入已经落盘，重载失败只记告警，不回滚
func (m *Manager) reloadZone(zoneName string) {
	res, err := m.session.Run(fmt.Sprintf("sudo rndc reload %s", zoneName))
	if err != nil {
		m.logger.Warn("区域 %s 重载命令执行失败: %v", zoneName, err)
		return
	}

	output := strings.ToLower(res.Combined())
	if !strings.Contains(output, "reload") && !strings.Contains(output, "up-to-date") {
		m.logger.Warn("区域 %s 重载可能未生效: %s", zoneName, strings.TrimSpace(res.Combined()))
	}
}

// CommitZoneFile 事务性地提交区域文件内容
// 协议：暂存 → 离线验证 → 替换线上文件 → 在线重载
// 前三步任何失败都在线上文件被触碰前中止；第四步失败不回滚前三步
func (m *Manager) CommitZoneFile(zoneName, targetPath, newText string) error {
	scratch, err := m.stageZoneFile(zoneName, newText)
	if err != nil {
		return err
	}

	if err := m.placeZoneFile(scratch, targetPath); err != nil {
		return err
	}

	m.reloadZone(zoneName)
	return nil
}
