// core/bind/records.go
// 区域记录读取与追加

package bind

import (
	"fmt"
	"strings"
)

// 追加记录时未指定TTL使用的默认值
const defaultRecordTTL = 3600

// readZoneText 读取区域的文件内容
func (m *Manager) readZoneText(zone *Zone) (string, error) {
	res, err := m.session.Run(fmt.Sprintf("cat %s", zone.File))
	if err != nil {
		return "", err
	}
	if strings.Contains(res.Stderr, noSuchFileMarker) {
		return "", fmt.Errorf("%w: 区域文件不存在: %s", ErrZoneNotFound, zone.File)
	}
	if res.Stdout == "" {
		return "", fmt.Errorf("%w: 区域文件为空或不可读: %s", ErrZoneNotFound, zone.File)
	}
	return res.Stdout, nil
}

// GetRecords 获取区域的全部结构化记录
func (m *Manager) GetRecords(zoneName string) ([]Record, error) {
	zone, err := m.FindZone(zoneName)
	if err != nil {
		return nil, err
	}

	zoneText, err := m.readZoneText(zone)
	if err != nil {
		return nil, err
	}

	return ParseZoneRecords(zoneText, zoneName)
}

// AppendRecord 向区域追加一条记录（可能含多个值）并事务性提交
// 当前行为只支持批量追加，不支持按记录更新或删除
func (m *Manager) AppendRecord(zoneName, name string, ttl uint32, recordType string, values []string) error {
	if name == "" || recordType == "" || len(values) == 0 {
		return fmt.Errorf("记录名称、类型和值不能为空")
	}
	if ttl == 0 {
		ttl = defaultRecordTTL
	}

	zone, err := m.FindZone(zoneName)
	if err != nil {
		return err
	}

	zoneText, err := m.readZoneText(zone)
	if err != nil {
		return err
	}

	lines := FormatAppend(name, ttl, recordType, values)
	updated := AppendRecordLines(zoneText, lines)

	if err := m.CommitZoneFile(zoneName, zone.File, updated); err != nil {
		return err
	}

	m.logger.Info("区域 %s 追加记录成功: %s %s", zoneName, name, recordType)
	return nil
}
