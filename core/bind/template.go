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

// core/bind/template.go
// 新区域文件与配置片段渲染

package bind

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// SOA默认参数
const (
	soaDefaultRefresh = "3600"
	soaDefaultRetry   = "1800"
	soaDefaultExpire  = "604800"
	soaDefaultMinimum = "86400"
)

// generateSerial 生成SOA记录序列号
// 格式：YYYYMMDD+2位流水号（如2026082401）
func generateSerial() string {
	dateStr := time.Now().Format("20060102")
	return fmt.Sprintf("%s01", dateStr) // 初始流水号为01
}

// emailToRName 将管理员邮箱转换为SOA的rname形式
// user@example.com -> user.example.com.
func emailToRName(email string) string {
	return ensureDotSuffix(strings.Replace(email, "@", ".", 1))
}

// RenderZoneFile 渲染新区域的文件内容
// 纯函数：给定参数返回文本，不做任何远程调用
func RenderZoneFile(req CreateZoneRequest) string {
	var buffer bytes.Buffer

	primaryNS := ensureDotSuffix(req.PrimaryNS)

	buffer.WriteString("$TTL 86400\n")
	buffer.WriteString(fmt.Sprintf("@\tIN SOA %s %s (\n", primaryNS, emailToRName(req.AdminEmail)))
	buffer.WriteString(fmt.Sprintf("\t\t%s ; Serial\n", generateSerial()))
	buffer.WriteString(fmt.Sprintf("\t\t%s ; Refresh\n", soaDefaultRefresh))
	buffer.WriteString(fmt.Sprintf("\t\t%s ; Retry\n", soaDefaultRetry))
	buffer.WriteString(fmt.Sprintf("\t\t%s ; Expire\n", soaDefaultExpire))
	buffer.WriteString(fmt.Sprintf("\t\t%s ; Minimum TTL\n", soaDefaultMinimum))
	buffer.WriteString(")\n\n")

	buffer.WriteString(fmt.Sprintf("@\t86400\tIN\tNS\t%s\n", primaryNS))

	// 主NS位于区域内时写入胶水A记录
	if req.GlueIP != "" {
		glueOwner := "@"
		ns := strings.TrimSuffix(req.PrimaryNS, ".")
		if ns != req.Name {
			glueOwner = strings.TrimSuffix(ns, "."+req.Name)
		}
		buffer.WriteString(fmt.Sprintf("%s\t3600\tIN\tA\t%s\n", glueOwner, req.GlueIP))
	}

	return buffer.String()
}

// RenderZoneStanza 渲染追加到配置文件的zone配置块
func RenderZoneStanza(zoneName, zoneFilePath string) string {
	return fmt.Sprintf("\nzone \"%s\" {\n    type master;\n    file \"%s\";\n};\n", zoneName, zoneFilePath)
}
