// core/bind/resolver.go
// 区域文件路径解析

package bind

import (
	"fmt"
	"strings"
)

// ResolveZoneFile 将区域文件路径解析为绝对路径
// 已经是绝对路径时原样返回；相对路径按顺序在基目录下远程探测，
// 全部不命中时保留相对路径，由调用方在使用时处理不存在的情况
func (m *Manager) ResolveZoneFile(zoneFile string) (string, error) {
	if strings.HasPrefix(zoneFile, "/") {
		return zoneFile, nil
	}

	for _, baseDir := range m.cfg.ZoneBaseDirs {
		candidate := fmt.Sprintf("%s/%s", baseDir, zoneFile)
		exists, err := m.remoteFileExists(candidate)
		if err != nil {
			return "", err
		}
		if exists {
			return candidate, nil
		}
	}

	m.logger.Warn("区域文件路径未能解析为绝对路径: %s", zoneFile)
	return zoneFile, nil
}

// remoteFileExists 远程文件存在性探测
func (m *Manager) remoteFileExists(path string) (bool, error) {
	res, err := m.session.Run(fmt.Sprintf(`test -f %s && echo "exists"`, path))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) == "exists", nil
}
