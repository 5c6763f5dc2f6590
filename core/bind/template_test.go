// core/bind/template_test.go
// 区域文件渲染测试文件

package bind

import (
	"strings"
	"testing"
	"time"
)

// TestRenderZoneFile_InZoneNS 测试区域内NS的完整渲染
func TestRenderZoneFile_InZoneNS(t *testing.T) {
	text := RenderZoneFile(CreateZoneRequest{
		Name:       "example.com",
		PrimaryNS:  "ns1.example.com",
		AdminEmail: "admin@example.com",
		GlueIP:     "192.0.2.1",
	})

	if !strings.HasPrefix(text, "$TTL 86400\n") {
		t.Errorf("区域文件应以 $TTL 指令开头: %q", text)
	}
	if !strings.Contains(text, "@\tIN SOA ns1.example.com. admin.example.com. (") {
		t.Errorf("SOA头格式错误:\n%s", text)
	}
	if !strings.Contains(text, "@\t86400\tIN\tNS\tns1.example.com.\n") {
		t.Errorf("缺少NS记录:\n%s", text)
	}
	if !strings.Contains(text, "ns1\t3600\tIN\tA\t192.0.2.1\n") {
		t.Errorf("缺少胶水A记录:\n%s", text)
	}

	// 渲染结果必须能被自己的解析器读回
	records, err := ParseZoneRecords(text, "example.com")
	if err != nil {
		t.Fatalf("渲染结果无法解析: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("期望 SOA/NS/A 共3条记录, 实际 %d 条", len(records))
	}
}

// TestRenderZoneFile_OutOfZoneNS 测试区域外NS不产生胶水记录
func TestRenderZoneFile_OutOfZoneNS(t *testing.T) {
	text := RenderZoneFile(CreateZoneRequest{
		Name:       "example.com",
		PrimaryNS:  "ns1.provider.net",
		AdminEmail: "admin@example.com",
	})

	if strings.Contains(text, "\tA\t") {
		t.Errorf("区域外NS不应产生胶水A记录:\n%s", text)
	}
	if !strings.Contains(text, "NS\tns1.provider.net.") {
		t.Errorf("缺少NS记录:\n%s", text)
	}
}

// TestGenerateSerial 测试SOA序列号格式
func TestGenerateSerial(t *testing.T) {
	serial := generateSerial()
	expected := time.Now().Format("20060102") + "01"
	if serial != expected {
		t.Errorf("序列号期望 %s, 实际 %s", expected, serial)
	}
}

// TestEmailToRName 测试邮箱到rname的转换
func TestEmailToRName(t *testing.T) {
	tests := []struct {
		email    string
		expected string
	}{
		{"admin@example.com", "admin.example.com."},
		{"hostmaster@sub.example.com", "hostmaster.sub.example.com."},
	}
	for _, tt := range tests {
		if result := emailToRName(tt.email); result != tt.expected {
			t.Errorf("转换 %s 期望 %s, 实际 %s", tt.email, tt.expected, result)
		}
	}
}

// TestRenderZoneStanza 测试zone配置块渲染
func TestRenderZoneStanza(t *testing.T) {
	stanza := RenderZoneStanza("example.com", "/var/cache/bind/db.example.com")
	expected := "\nzone \"example.com\" {\n    type master;\n    file \"/var/cache/bind/db.example.com\";\n};\n"
	if stanza != expected {
		t.Errorf("配置块期望 %q, 实际 %q", expected, stanza)
	}
}
