// core/bind/errors.go
// 引擎错误分类

package bind

import (
	"errors"
	"fmt"
)

// 引擎错误
var (
	// ErrConfigUnreadable 主配置及所有备选路径均不可读
	ErrConfigUnreadable = errors.New("BIND配置文件不可读")
	// ErrZoneNotFound 区域不存在或不可编辑
	ErrZoneNotFound = errors.New("区域不存在")
	// ErrMalformedZone 区域文件解析失败
	ErrMalformedZone = errors.New("区域文件格式错误")
	// ErrZoneAlreadyExists 区域已在配置文件中声明
	ErrZoneAlreadyExists = errors.New("区域已存在")
)

// ValidationError 离线验证器拒绝了引擎生成的内容
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("验证失败: %s", e.Details)
}

// WriteError 远程写入失败
type WriteError struct {
	Details string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("远程写入失败: %s", e.Details)
}
