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

// core/bind/layout.go
// 远程服务器BIND目录布局探测与数据目录管理

package bind

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// debianMarkerFile Debian系发行版的标记文件
const debianMarkerFile = "/etc/debian_version"

// 两种固定布局，不是可扩展的插件集
var (
	debianLayout = Layout{
		Name:            "debian",
		MainConfPath:    "/etc/bind/named.conf",
		LocalConfPath:   "/etc/bind/named.conf.local",
		WorkingDir:      "/var/cache/bind",
		CacheDir:        "/var/cache/bind/dynamic",
		ServiceUser:     "bind",
		ServiceGroup:    "bind",
		ServiceUnit:     "bind9",
		OptionsConfPath: "/etc/bind/named.conf.bindbridge-options",
	}

	rhelLayout = Layout{
		Name:            "rhel",
		MainConfPath:    "/etc/named.conf",
		LocalConfPath:   "/etc/named.conf",
		WorkingDir:      "/var/named",
		CacheDir:        "/var/named/data",
		ServiceUser:     "named",
		ServiceGroup:    "named",
		ServiceUnit:     "named",
		OptionsConfPath: "/etc/named.bindbridge-options.conf",
	}
)

var directoryOptionRegex = regexp.MustCompile(`directory\s+"([^"]+)"`)

// DetectLayout 探测远程服务器的BIND目录布局
// 通过Debian标记文件做二选一判断，结果在本会话内缓存
func (m *Manager) DetectLayout() (*Layout, error) {
	if m.layout != nil {
		return m.layout, nil
	}

	isDebian, err := m.remoteFileExists(debianMarkerFile)
	if err != nil {
		return nil, err
	}

	layout := rhelLayout
	if isDebian {
		layout = debianLayout
	}

	m.logger.Debug("探测到BIND布局: %s", layout.Name)
	m.layout = &layout
	return m.layout, nil
}

// findWorkingDirectory 在主配置及其include中查找directory选项
// 返回配置的数据目录，未配置时返回空字符串
func (m *Manager) findWorkingDirectory(layout *Layout) (string, error) {
	content, ok, err := m.readConfigFile(layout.MainConfPath)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrConfigUnreadable, layout.MainConfPath)
	}

	if match := directoryOptionRegex.FindStringSubmatch(content); match != nil {
		return match[1], nil
	}

	// 主文件没有，再逐个检查include文件
	for _, includeMatch := range includeRegex.FindAllStringSubmatch(content, -1) {
		includePath := includeMatch[1]
		if !strings.HasPrefix(includePath, "/") {
			includePath = path.Join(path.Dir(layout.MainConfPath), includePath)
		}

		includeContent, includeOK, err := m.readConfigFile(includePath)
		if err != nil {
			return "", err
		}
		if !includeOK {
			continue
		}

		if match := directoryOptionRegex.FindStringSubmatch(includeContent); match != nil {
			return match[1], nil
		}
	}

	return "", nil
}

// EnsureWorkingDirectory 确保BIND数据目录已配置并存在
// 未配置时写入options配置片段、在主配置文件最顶部插入include、
// 创建数据目录和二级缓存目录。注意：这是全局配置变更，影响整个BIND
// 实例，而非单个区域
// 返回数据目录路径和本次是否发生了全局配置变更
func (m *Manager) EnsureWorkingDirectory(layout *Layout) (string, bool, error) {
	workDir, err := m.findWorkingDirectory(layout)
	if err != nil {
		return "", false, err
	}
	if workDir != "" {
		return workDir, false, nil
	}

	m.logger.Warn("BIND未配置数据目录，正在写入全局options配置: directory %q（此变更影响整个BIND实例）", layout.WorkingDir)

	// 写入options配置片段
	stanza := fmt.Sprintf("options {\n    directory \"%s\";\n};\n", layout.WorkingDir)
	scratch := fmt.Sprintf("%s/bindbridge-options.conf", m.cfg.ScratchDir)
	if err := m.session.Upload([]byte(stanza), scratch); err != nil {
		return "", false, &WriteError{Details: err.Error()}
	}
	if err := m.runChecked(fmt.Sprintf("sudo mv %s %s && sudo chmod 644 %s",
		scratch, layout.OptionsConfPath, layout.OptionsConfPath)); err != nil {
		return "", false, err
	}

	// 在主配置文件最顶部插入include
	content, ok, err := m.readConfigFile(layout.MainConfPath)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, fmt.Errorf("%w: %s", ErrConfigUnreadable, layout.MainConfPath)
	}

	newContent := fmt.Sprintf("include \"%s\";\n%s", layout.OptionsConfPath, content)
	confScratch := fmt.Sprintf("%s/bindbridge-named.conf", m.cfg.ScratchDir)
	if err := m.session.Upload([]byte(newContent), confScratch); err != nil {
		return "", false, &WriteError{Details: err.Error()}
	}
	if err := m.runChecked(fmt.Sprintf("sudo mv %s %s && sudo chown root:%s %s && sudo chmod 644 %s",
		confScratch, layout.MainConfPath, layout.ServiceGroup, layout.MainConfPath, layout.MainConfPath)); err != nil {
		return "", false, err
	}

	// 创建数据目录和二级缓存目录
	if err := m.runChecked(fmt.Sprintf("sudo mkdir -p %s %s && sudo chown -R %s:%s %s && sudo chmod 775 %s %s",
		layout.WorkingDir, layout.CacheDir,
		layout.ServiceUser, layout.ServiceGroup, layout.WorkingDir,
		layout.WorkingDir, layout.CacheDir)); err != nil {
		return "", false, err
	}

	return layout.WorkingDir, true, nil
}

// runChecked 执行远程命令并要求零退出码
func (m *Manager) runChecked(command string) error {
	res, err := m.session.Run(command)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &WriteError{Details: fmt.Sprintf("命令 %q 失败: %s", command, strings.TrimSpace(res.Combined()))}
	}
	return nil
}
