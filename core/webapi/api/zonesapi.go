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
// core/webapi/api/zonesapi.go
// 区域发现与建区API

package api

import (
	"net/http"
	"sort"

	"BindBridge/core/bind"
	"BindBridge/core/webapi/middleware"

	"github.com/gin-gonic/gin"
)

// ZonesListHandler 列出远程服务器上的全部可编辑区域
// 每次请求重新发现，不做缓存
func ZonesListHandler(c *gin.Context) {
	manager, session, err := newManagerSession()
	if err != nil {
		sendEngineError(c, err)
		return
	}
	defer session.Close()

	zones, err := manager.DiscoverZones()
	if err != nil {
		sendEngineError(c, err)
		return
	}

	// map遍历无序，按区域名排序保证响应稳定
	list := make([]bind.Zone, 0, len(zones))
	for _, zone := range zones {
		list = append(list, zone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	middleware.SendSuccessResponseGin(c, gin.H{
		"zones":       list,
		"config_file": manager.ConfigPath(),
	}, "")
}

// ZoneCreateHandler 在远程服务器上创建新区域
func ZoneCreateHandler(c *gin.Context) {
	var req bind.CreateZoneRequest
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

	result, err := manager.CreateZone(req)
	if err != nil {
		sendEngineError(c, err)
		return
	}

	middleware.SendSuccessResponseGin(c, result, "区域创建成功")
}
