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

// core/bind/creator.go
// 建区编排：布局探测、文件落盘、配置变更与校验回滚

package bind

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// createZoneMu 建区流程的进程内互斥锁
// 建区涉及对共享配置文件的读-改-写，并发执行会互相覆盖。
// 锁的范围是本进程；跨进程并发写同一台服务器不在保护范围内
var createZoneMu sync.Mutex

// zoneDeclRegexFor 构造匹配指定区域声明的正则
func zoneDeclRegexFor(zoneName string) *regexp.Regexp {
	return regexp.MustCompile(`zone\s+"` + regexp.QuoteMeta(zoneName) + `"`)
}

// checkZoneAbsent 确认目标区域尚未在配置中声明
func (m *Manager) checkZoneAbsent(layout *Layout, zoneName string) error {
	declRegex := zoneDeclRegexFor(zoneName)

	for _, confPath := range []string{layout.MainConfPath, layout.LocalConfPath} {
		content, ok, err := m.readConfigFile(confPath)
		if err != nil {
			return err
		}
		if ok && declRegex.MatchString(content) {
			return fmt.Errorf("%w: %s 已在 %s 中声明", ErrZoneAlreadyExists, zoneName, confPath)
		}
	}
	return nil
}

// backupConfig 为配置文件创建带时间戳的备份
// 备份永久保留，不做自动清理
func (m *Manager) backupConfig(confPath string) (string, error) {
	backupPath := fmt.Sprintf("%s.bak.%s", confPath, time.Now().Format("20060102150405"))
	if err := m.runChecked(fmt.Sprintf("sudo cp -p %s %s", confPath, backupPath)); err != nil {
		return "", err
	}
	return backupPath, nil
}

// appendZoneStanza 将区域声明追加到配置文件末尾
func (m *Manager) appendZoneStanza(confPath, zoneName, zoneFilePath string) error {
	stanza := RenderZoneStanza(zoneName, zoneFilePath)
	scratch := fmt.Sprintf("%s/bindbridge-stanza.conf", m.cfg.ScratchDir)

	if err := m.session.Upload([]byte(stanza), scratch); err != nil {
		return &WriteError{Details: err.Error()}
	}
	return m.runChecked(fmt.Sprintf("sudo sh -c 'cat %s >> %s' && rm -f %s", scratch, confPath, scratch))
}

// checkConfig 对主配置文件运行named-checkconf
// checkconf成功时静默，按是否产生输出判断
func (m *Manager) checkConfig(mainConfPath string) error {
	res, err := m.session.Run(fmt.Sprintf("named-checkconf %s", mainConfPath))
	if err != nil {
		return err
	}
	output := strings.TrimSpace(res.Combined())
	if res.ExitCode != 0 || output != "" {
		return &ValidationError{Details: output}
	}
	return nil
}

// CreateZone 创建一个新的master区域
// 流程：本地校验 → 布局探测 → 数据目录保障 → 重名检查 → 渲染并落盘
// 区域文件 → 备份配置 → 追加区域声明 → checkconf验证（失败则从备份
// 恢复配置并删除区域文件）→ 尽力重载
func (m *Manager) CreateZone(req CreateZoneRequest) (*CreateZoneResult, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	createZoneMu.Lock()
	defer createZoneMu.Unlock()

	layout, err := m.DetectLayout()
	if err != nil {
		return nil, err
	}

	workDir, dirChanged, err := m.EnsureWorkingDirectory(layout)
	if err != nil {
		return nil, err
	}

	if err := m.checkZoneAbsent(layout, req.Name); err != nil {
		return nil, err
	}

	zoneFilePath := fmt.Sprintf("%s/db.%s", workDir, req.Name)
	zoneText := RenderZoneFile(req)

	scratch, err := m.stageZoneFile(req.Name, zoneText)
	if err != nil {
		return nil, err
	}
	if err := m.placeZoneFile(scratch, zoneFilePath); err != nil {
		return nil, err
	}

	confPath := layout.LocalConfPath
	backupPath, err := m.backupConfig(confPath)
	if err != nil {
		return nil, err
	}

	if err := m.appendZoneStanza(confPath, req.Name, zoneFilePath); err != nil {
		return nil, err
	}

	if err := m.checkConfig(layout.MainConfPath); err != nil {
		// 配置校验失败，恢复备份并清理已落盘的区域文件
		m.logger.Error("区域 %s 配置校验失败，正在回滚: %v", req.Name, err)
		if restoreErr := m.runChecked(fmt.Sprintf("sudo cp -p %s %s", backupPath, confPath)); restoreErr != nil {
			m.logger.Error("配置回滚失败，服务器可能处于不一致状态: %v", restoreErr)
		}
		m.session.Run(fmt.Sprintf("sudo rm -f %s", zoneFilePath))
		return nil, err
	}

	m.reloadZone(req.Name)
	m.logger.Info("区域 %s 创建成功，文件: %s", req.Name, zoneFilePath)

	return &CreateZoneResult{
		Zone:           req.Name,
		ZoneFilePath:   zoneFilePath,
		ConfigPath:     confPath,
		BackupPath:     backupPath,
		CreatedWorkDir: dirChanged,
	}, nil
}
