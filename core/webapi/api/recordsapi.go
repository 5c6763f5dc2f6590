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
// core/webapi/api/recordsapi.go
// 区域记录API

package api

import (
	"net/http"

	"BindBridge/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// RecordRequest 记录追加请求
type RecordRequest struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	TTL    uint32   `json:"ttl"`
	Values []string `json:"values"`
}

// RecordsListHandler 列出区域的全部记录
func RecordsListHandler(c *gin.Context) {
	zoneName := c.Param("zone")

	manager, session, err := newManagerSession()
	if err != nil {
		sendEngineError(c, err)
		return
	}
	defer session.Close()

	records, err := manager.GetRecords(zoneName)
	if err != nil {
		sendEngineError(c, err)
		return
	}

	middleware.SendSuccessResponseGin(c, gin.H{
		"zone":    zoneName,
		"records": records,
	}, "")
}

// RecordAppendHandler 向区域追加记录
func RecordAppendHandler(c *gin.Context) {
	zoneName := c.Param("zone")

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendErrorResponseGin(c, "无效的请求体", http.StatusBadRequest)
		return
	}

	manager, session, err := newManagerSession()
	if err != nil {
		sendEngineError(c, err)
		return
	}
	defer session.Close()

	if err := manager.AppendRecord(zoneName, req.Name, req.TTL, req.Type, req.Values); err != nil {
		sendEngineError(c, err)
		return
	}

	middleware.SendSuccessResponseGin(c, nil, "记录追加成功")
}

// RecordUpdateHandler 按记录更新
// 区域文件不保留记录标识，按条更新无法可靠定位，明确不支持
func RecordUpdateHandler(c *gin.Context) {
	middleware.SendErrorResponseGin(c, "不支持按记录更新，请追加新记录或直接编辑区域文件", http.StatusNotImplemented)
}

// RecordDeleteHandler 按记录删除
// 与更新相同的原因，明确不支持
func RecordDeleteHandler(c *gin.Context) {
	middleware.SendErrorResponseGin(c, "不支持按记录删除，请直接编辑区域文件", http.StatusNotImplemented)
}
