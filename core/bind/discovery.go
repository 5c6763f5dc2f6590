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

// core/bind/discovery.go
// 配置发现：解析named.conf及其include，枚举可编辑区域

package bind

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// systemZones 定义系统区域列表，发现结果对外完全屏蔽
var systemZones = map[string]bool{
	"localhost":            true, // 本地回环正向解析
	"0.0.127.in-addr.arpa": true, // IPv4 本地回环反向解析
	"1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.ip6.arpa": true, // IPv6 本地回环反向解析
}

// isSystemZone 判断指定域名是否为系统区域
func isSystemZone(domain string) bool {
	return systemZones[domain]
}

// noSuchFileMarker cat失败时错误流中的文件不存在标记
const noSuchFileMarker = "No such file"

var (
	includeRegex = regexp.MustCompile(`include\s+"([^"]+)"`)
	// 匹配到第一个右花括号为止；zone块内的嵌套花括号不做处理，
	// 这是与既有行为保持一致的已知限制，不要"修复"
	zoneBlockRegex = regexp.MustCompile(`zone\s+"([^"]+)"\s+(?:IN\s+)?\{([^}]*)\}`)
	zoneTypeRegex  = regexp.MustCompile(`type\s+(master|slave|hint|forward)`)
	zoneFileRegex  = regexp.MustCompile(`file\s+"([^"]+)"`)
)

// readConfigFile 读取远程配置文件内容
// 返回内容和是否可读
func (m *Manager) readConfigFile(confPath string) (string, bool, error) {
	res, err := m.session.Run(fmt.Sprintf("cat %s", confPath))
	if err != nil {
		return "", false, err
	}
	if strings.Contains(res.Stderr, noSuchFileMarker) {
		return "", false, nil
	}
	return res.Stdout, true, nil
}

// DiscoverZones 从远程named.conf及其include文件中发现所有区域
// 只返回type master且声明了区域文件的区域，系统区域被跳过
// 主配置不可读时依次尝试备选路径，采用第一个可读的并更新本会话配置路径
func (m *Manager) DiscoverZones() (map[string]Zone, error) {
	content, ok, err := m.readConfigFile(m.cfg.NamedConfPath)
	if err != nil {
		return nil, err
	}

	if !ok {
		for _, alt := range m.cfg.FallbackConfPaths {
			altContent, altOK, err := m.readConfigFile(alt)
			if err != nil {
				return nil, err
			}
			if altOK {
				m.logger.Info("主配置文件不可读，采用备选路径: %s", alt)
				m.cfg.NamedConfPath = alt
				content = altContent
				ok = true
				break
			}
		}
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConfigUnreadable, m.cfg.NamedConfPath)
	}

	// include只展开一层，被包含文件自身的include不再跟进
	// （与既有行为保持一致的已知限制）
	allContent := content
	for _, match := range includeRegex.FindAllStringSubmatch(content, -1) {
		includePath := match[1]
		if !strings.HasPrefix(includePath, "/") {
			includePath = path.Join(path.Dir(m.cfg.NamedConfPath), includePath)
		}

		includeContent, includeOK, err := m.readConfigFile(includePath)
		if err != nil {
			return nil, err
		}
		if !includeOK {
			m.logger.Warn("include文件不可读，已跳过: %s", includePath)
			continue
		}
		allContent += "\n" + includeContent
	}

	zones := make(map[string]Zone)

	for _, match := range zoneBlockRegex.FindAllStringSubmatch(allContent, -1) {
		zoneName := match[1]
		zoneBlock := match[2]

		if isSystemZone(zoneName) {
			m.logger.Debug("跳过系统区域: %s", zoneName)
			continue
		}

		kind := KindUnknown
		if typeMatch := zoneTypeRegex.FindStringSubmatch(zoneBlock); typeMatch != nil {
			kind = ZoneKind(typeMatch[1])
		}

		fileMatch := zoneFileRegex.FindStringSubmatch(zoneBlock)

		// 只保留可编辑的master区域
		if kind != KindMaster || fileMatch == nil {
			continue
		}

		zoneFile, err := m.ResolveZoneFile(fileMatch[1])
		if err != nil {
			return nil, err
		}

		zones[zoneName] = Zone{
			Name: zoneName,
			Kind: kind,
			File: zoneFile,
		}
	}

	return zones, nil
}

// FindZone 查找单个可编辑区域
func (m *Manager) FindZone(zoneName string) (*Zone, error) {
	zones, err := m.DiscoverZones()
	if err != nil {
		return nil, err
	}

	zone, exists := zones[zoneName]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, zoneName)
	}
	return &zone, nil
}
