// core/bind/records_test.go
// 区域记录读取与追加测试文件

package bind

import (
	"errors"
	"strings"
	"testing"
)

// recordServer 构造一台带单个区域的测试服务器
func recordServer() *fakeSession {
	session := newFakeSession()
	session.files["/etc/debian_version"] = "12.5\n"
	session.files["/etc/bind/named.conf"] = `zone "example.com" {
    type master;
    file "/var/cache/bind/db.example.com";
};
`
	session.files["/var/cache/bind/db.example.com"] = sampleZoneText
	return session
}

// TestGetRecords 测试记录读取
func TestGetRecords(t *testing.T) {
	m := NewManager(DefaultConfig(), recordServer())

	records, err := m.GetRecords("example.com")
	if err != nil {
		t.Fatalf("读取记录失败: %v", err)
	}
	// SOA/NS/ns1 A/www A/mail MX 共5组
	if len(records) != 5 {
		t.Errorf("期望5组记录, 实际 %d 组: %+v", len(records), records)
	}
}

// TestGetRecords_ZoneFileMissing 测试区域文件缺失
func TestGetRecords_ZoneFileMissing(t *testing.T) {
	session := recordServer()
	delete(session.files, "/var/cache/bind/db.example.com")

	m := NewManager(DefaultConfig(), session)
	_, err := m.GetRecords("example.com")
	if !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("期望 ErrZoneNotFound, 实际 %v", err)
	}
}

// TestAppendRecord 测试追加记录的端到端流程
func TestAppendRecord(t *testing.T) {
	session := recordServer()
	m := NewManager(DefaultConfig(), session)

	if err := m.AppendRecord("example.com", "ftp", 0, "A", []string{"10.0.0.3"}); err != nil {
		t.Fatalf("追加记录失败: %v", err)
	}

	zoneText := session.files["/var/cache/bind/db.example.com"]
	// 未指定TTL使用缺省值3600
	if !strings.Contains(zoneText, "ftp\t3600\tIN\tA\t10.0.0.3\n") {
		t.Errorf("区域文件缺少追加的记录:\n%s", zoneText)
	}
	if strings.Contains(zoneText, "\n\n") {
		t.Errorf("追加不应引入空行:\n%s", zoneText)
	}

	records, err := m.GetRecords("example.com")
	if err != nil {
		t.Fatalf("追加后读取记录失败: %v", err)
	}
	found := false
	for _, record := range records {
		if record.Name == "ftp" && record.Type == "A" {
			found = true
		}
	}
	if !found {
		t.Errorf("追加后应能读回 ftp A 记录")
	}
}

// TestAppendRecord_EmptyInput 测试空输入拒绝
func TestAppendRecord_EmptyInput(t *testing.T) {
	session := recordServer()
	m := NewManager(DefaultConfig(), session)

	if err := m.AppendRecord("example.com", "", 0, "A", []string{"10.0.0.3"}); err == nil {
		t.Errorf("空记录名称应被拒绝")
	}
	if err := m.AppendRecord("example.com", "ftp", 0, "A", nil); err == nil {
		t.Errorf("空记录值应被拒绝")
	}
}
