// core/bind/validation.go
// 建区请求的本地校验

package bind

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var zoneNameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// isValidIPv4 校验点分十进制IPv4地址
func isValidIPv4(value string) bool {
	parts := strings.Split(value, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || part == "" || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// nsInsideZone 判断主NS是否位于待建区域内
// 区域顶点本身或其直接子域算区域内
func nsInsideZone(primaryNS, zoneName string) bool {
	ns := strings.TrimSuffix(primaryNS, ".")
	zone := strings.TrimSuffix(zoneName, ".")
	if strings.EqualFold(ns, zone) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(ns), "."+strings.ToLower(zone))
}

// validateCreateRequest 校验建区请求
// 全部为本地校验，在任何远程操作之前执行
func validateCreateRequest(req CreateZoneRequest) error {
	if req.Name == "" || !zoneNameRegex.MatchString(req.Name) {
		return &ValidationError{Details: fmt.Sprintf("区域名称不合法: %q", req.Name)}
	}
	if !strings.Contains(req.PrimaryNS, ".") {
		return &ValidationError{Details: fmt.Sprintf("主NS主机名不合法: %q", req.PrimaryNS)}
	}
	if !strings.Contains(req.AdminEmail, "@") {
		return &ValidationError{Details: fmt.Sprintf("管理员邮箱不合法: %q", req.AdminEmail)}
	}

	if nsInsideZone(req.PrimaryNS, req.Name) {
		// 区域内NS必须带胶水地址，否则区域自举时无法解析自己的NS
		if req.GlueIP == "" {
			return &ValidationError{Details: fmt.Sprintf("主NS %s 位于区域 %s 内，必须提供胶水IP地址", req.PrimaryNS, req.Name)}
		}
		if !isValidIPv4(req.GlueIP) {
			return &ValidationError{Details: fmt.Sprintf("胶水IP地址不合法: %q", req.GlueIP)}
		}
	} else if req.GlueIP != "" {
		return &ValidationError{Details: fmt.Sprintf("主NS %s 不在区域 %s 内，不应提供胶水IP地址", req.PrimaryNS, req.Name)}
	}

	return nil
}
