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

// core/bind/codec.go
// 区域文件记录编解码

package bind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// hostnameValueTypes 取值为主机名的记录类型
// 追加时必须确保目标主机名以点结尾，否则BIND装载器会把区域origin
// 追加到调用方本意为绝对名称的值后面
var hostnameValueTypes = map[string]bool{
	"CNAME": true,
	"MX":    true,
	"NS":    true,
	"SRV":   true,
	"PTR":   true,
}

// MX记录缺省优先级
const defaultMXPriority = 10

// ParseZoneRecords 解析区域文件文本为结构化记录
// 同一节点同一类型的记录集合并为一条Record，TTL取该类型首次出现的值
// SOA记录集产出单条只读摘要值（mname rname serial refresh retry expire
// minimum），该转换是有损的，无法从摘要重建可编辑的SOA
func ParseZoneRecords(zoneText, originName string) ([]Record, error) {
	originFQDN := dns.Fqdn(originName)
	zp := dns.NewZoneParser(strings.NewReader(zoneText), originFQDN, "")

	type recordKey struct {
		name  string
		rtype string
	}

	var order []recordKey
	grouped := make(map[recordKey]*Record)

	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		header := rr.Header()
		name := normalizeOwnerName(header.Name, originFQDN)
		rtype := dns.TypeToString[header.Rrtype]

		key := recordKey{name: name, rtype: rtype}
		record, exists := grouped[key]
		if !exists {
			fqdn := originName
			if name != "@" {
				fqdn = fmt.Sprintf("%s.%s", name, originName)
			}
			record = &Record{
				Name: name,
				Type: rtype,
				TTL:  header.Ttl,
				FQDN: fqdn,
				ID:   fmt.Sprintf("%s_%s", name, rtype),
			}
			grouped[key] = record
			order = append(order, key)
		}

		record.Values = append(record.Values, rdataString(rr))
	}

	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedZone, err)
	}

	records := make([]Record, 0, len(order))
	for _, key := range order {
		records = append(records, *grouped[key])
	}

	return records, nil
}

// normalizeOwnerName 将记录所有者名称归一化为相对名称
// 区域顶点为 "@"，其他名称去掉origin后缀和末尾单个点
func normalizeOwnerName(owner, originFQDN string) string {
	if strings.EqualFold(owner, originFQDN) || owner == "@" {
		return "@"
	}
	if suffix := "." + originFQDN; strings.HasSuffix(strings.ToLower(owner), strings.ToLower(suffix)) {
		return owner[:len(owner)-len(suffix)]
	}
	return strings.TrimSuffix(owner, ".")
}

// rdataString 提取记录的数据部分文本
func rdataString(rr dns.RR) string {
	if soa, ok := rr.(*dns.SOA); ok {
		// 有损的展示用摘要，不支持回写
		return fmt.Sprintf("%s %s %d %d %d %d %d",
			soa.Ns, soa.Mbox, soa.Serial, soa.Refresh, soa.Retry, soa.Expire, soa.Minttl)
	}
	return strings.TrimPrefix(rr.String(), rr.Header().String())
}

// ensureDotSuffix 确保域名值以点结尾
func ensureDotSuffix(value string) string {
	if value == "" || strings.HasSuffix(value, ".") {
		return value
	}
	return value + "."
}

// FormatAppend 将一条新记录的各个值格式化为可追加的区域文件行
// 行格式为制表符分隔: owner TTL IN TYPE value
func FormatAppend(name string, ttl uint32, recordType string, values []string) []string {
	lines := make([]string, 0, len(values))
	for _, value := range values {
		lines = append(lines, fmt.Sprintf("%s\t%d\tIN\t%s\t%s",
			name, ttl, recordType, normalizeRecordValue(recordType, value)))
	}
	return lines
}

// normalizeRecordValue 按记录类型归一化记录值
func normalizeRecordValue(recordType, value string) string {
	switch recordType {
	case "MX":
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return value
		}
		// 首个空白分隔的token是优先级；只给了主机名时补缺省优先级10
		if len(fields) >= 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				return fmt.Sprintf("%s %s", fields[0], ensureDotSuffix(fields[1]))
			}
		}
		return fmt.Sprintf("%d %s", defaultMXPriority, ensureDotSuffix(fields[0]))

	case "SRV":
		// 恰好四个token（priority weight port target）时补目标点，
		// 其他token数量原样透传，不做部分校验
		fields := strings.Fields(value)
		if len(fields) != 4 {
			return value
		}
		return fmt.Sprintf("%s %s %s %s",
			fields[0], fields[1], fields[2], ensureDotSuffix(fields[3]))

	default:
		if hostnameValueTypes[recordType] {
			return ensureDotSuffix(value)
		}
		return value
	}
}

// AppendRecordLines 将新记录行追加到区域文件文本末尾
// 保证追加处恰好一个换行符，不引入重复空行
func AppendRecordLines(zoneText string, lines []string) string {
	if len(lines) == 0 {
		return zoneText
	}

	text := strings.TrimRight(zoneText, "\n")
	if text != "" {
		text += "\n"
	}
	return text + strings.Join(lines, "\n") + "\n"
}
