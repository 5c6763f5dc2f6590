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

// core/bind/codec_test.go
// 区域记录编解码测试文件

package bind

import (
	"errors"
	"strings"
	"testing"
)

const sampleZoneText = `$TTL 86400
@	IN	SOA	ns1.example.com. admin.example.com. (
		2026082401 ; Serial
		3600
		1800
		604800
		86400
)
@	86400	IN	NS	ns1.example.com.
ns1	3600	IN	A	192.0.2.1
www	300	IN	A	10.0.0.1
www	600	IN	A	10.0.0.2
mail	3600	IN	MX	10 mx1.example.com.
`

// TestParseZoneRecords_Grouping 测试同名同类型记录合并
func TestParseZoneRecords_Grouping(t *testing.T) {
	records, err := ParseZoneRecords(sampleZoneText, "example.com")
	if err != nil {
		t.Fatalf("解析区域文件失败: %v", err)
	}

	var www *Record
	for i := range records {
		if records[i].Name == "www" && records[i].Type == "A" {
			www = &records[i]
		}
	}
	if www == nil {
		t.Fatalf("期望找到 www A 记录")
	}

	if len(www.Values) != 2 {
		t.Errorf("www A 记录值数量期望 2, 实际 %d: %v", len(www.Values), www.Values)
	}
	// TTL取该类型首次出现的值
	if www.TTL != 300 {
		t.Errorf("www A 记录TTL期望 300, 实际 %d", www.TTL)
	}
	if www.FQDN != "www.example.com" {
		t.Errorf("FQDN期望 www.example.com, 实际 %s", www.FQDN)
	}
	if www.ID != "www_A" {
		t.Errorf("记录ID期望 www_A, 实际 %s", www.ID)
	}
}

// TestParseZoneRecords_ApexAndSOA 测试区域顶点名称归一化和SOA摘要
func TestParseZoneRecords_ApexAndSOA(t *testing.T) {
	records, err := ParseZoneRecords(sampleZoneText, "example.com")
	if err != nil {
		t.Fatalf("解析区域文件失败: %v", err)
	}

	var soa, ns *Record
	for i := range records {
		switch records[i].Type {
		case "SOA":
			soa = &records[i]
		case "NS":
			ns = &records[i]
		}
	}

	if ns == nil || ns.Name != "@" {
		t.Fatalf("NS 记录名称期望 @, 实际 %+v", ns)
	}
	if ns.FQDN != "example.com" {
		t.Errorf("顶点记录FQDN期望 example.com, 实际 %s", ns.FQDN)
	}

	if soa == nil || len(soa.Values) != 1 {
		t.Fatalf("期望单条SOA摘要, 实际 %+v", soa)
	}
	// 有损摘要格式: mname rname serial refresh retry expire minimum
	expected := "ns1.example.com. admin.example.com. 2026082401 3600 1800 604800 86400"
	if soa.Values[0] != expected {
		t.Errorf("SOA摘要期望 %q, 实际 %q", expected, soa.Values[0])
	}
}

// TestParseZoneRecords_Malformed 测试畸形区域文件
func TestParseZoneRecords_Malformed(t *testing.T) {
	_, err := ParseZoneRecords("www IN A not-an-address\n", "example.com")
	if !errors.Is(err, ErrMalformedZone) {
		t.Errorf("期望 ErrMalformedZone, 实际 %v", err)
	}
}

// TestNormalizeRecordValue 测试按类型的记录值归一化
func TestNormalizeRecordValue(t *testing.T) {
	tests := []struct {
		recordType string
		value      string
		expected   string
	}{
		{"A", "10.0.0.1", "10.0.0.1"},
		{"TXT", `"v=spf1 -all"`, `"v=spf1 -all"`},
		{"CNAME", "target.example.net", "target.example.net."},
		{"CNAME", "target.example.net.", "target.example.net."},
		{"NS", "ns2.example.com", "ns2.example.com."},
		{"PTR", "host.example.com", "host.example.com."},
		// 只给主机名的MX补缺省优先级10
		{"MX", "mail.example.com", "10 mail.example.com."},
		{"MX", "20 mx2.example.com", "20 mx2.example.com."},
		// 恰好四个token的SRV补目标点，其他数量透传
		{"SRV", "10 60 5060 sip.example.com", "10 60 5060 sip.example.com."},
		{"SRV", "10 60 5060", "10 60 5060"},
	}

	for _, tt := range tests {
		result := normalizeRecordValue(tt.recordType, tt.value)
		if result != tt.expected {
			t.Errorf("归一化 %s %q 期望 %q, 实际 %q", tt.recordType, tt.value, tt.expected, result)
		}
	}
}

// TestFormatAppend 测试追加行格式
func TestFormatAppend(t *testing.T) {
	lines := FormatAppend("www", 300, "A", []string{"10.0.0.1"})
	if len(lines) != 1 {
		t.Fatalf("期望1行, 实际 %d 行", len(lines))
	}
	if lines[0] != "www\t300\tIN\tA\t10.0.0.1" {
		t.Errorf("追加行格式错误: %q", lines[0])
	}
}

// TestAppendRecordLines 测试追加处换行符处理
func TestAppendRecordLines(t *testing.T) {
	tests := []struct {
		name     string
		zoneText string
	}{
		{"单个换行结尾", "www\t300\tIN\tA\t10.0.0.1\n"},
		{"多个换行结尾", "www\t300\tIN\tA\t10.0.0.1\n\n\n"},
		{"无换行结尾", "www\t300\tIN\tA\t10.0.0.1"},
	}

	for _, tt := range tests {
		result := AppendRecordLines(tt.zoneText, []string{"ftp\t300\tIN\tA\t10.0.0.2"})
		expected := "www\t300\tIN\tA\t10.0.0.1\nftp\t300\tIN\tA\t10.0.0.2\n"
		if result != expected {
			t.Errorf("%s: 追加结果期望 %q, 实际 %q", tt.name, expected, result)
		}
		if strings.Contains(result, "\n\n") {
			t.Errorf("%s: 追加结果不应包含空行", tt.name)
		}
	}
}

// TestAppendRecordLines_EmptyZone 测试向空文本追加
func TestAppendRecordLines_EmptyZone(t *testing.T) {
	result := AppendRecordLines("", []string{"www\t300\tIN\tA\t10.0.0.1"})
	if result != "www\t300\tIN\tA\t10.0.0.1\n" {
		t.Errorf("空文本追加结果错误: %q", result)
	}
}
