package model

import (
	"strings"
	"time"
)

// MovementKind 原始移动类型（由位置列归属决定）
type MovementKind string

const (
	MovementWarehouseIn MovementKind = "warehouse_in" // 仓库到货
	MovementSiteOut     MovementKind = "site_out"     // 现场交付
)

// LocationKind 位置类型
type LocationKind string

const (
	LocationWarehouse LocationKind = "warehouse"
	LocationSite      LocationKind = "site"
)

// LocationKind 去掉 _in/_out 后缀得到位置类型
func (k MovementKind) LocationKind() LocationKind {
	s := string(k)
	s = strings.TrimSuffix(s, "_in")
	s = strings.TrimSuffix(s, "_out")
	return LocationKind(s)
}

// RawMovement 原始移动记录：一个有日期的位置列
type RawMovement struct {
	CaseID   string       `json:"caseId"`
	At       time.Time    `json:"at"`
	Location string       `json:"location"`
	Kind     MovementKind `json:"kind"`
}

// Month 移动所在月份
func (m RawMovement) Month() Month {
	return MonthOf(m.At)
}

// EventKind 合成事件类型
type EventKind string

const (
	EventWarehouseArrival   EventKind = "warehouse_arrival"   // 入库
	EventWarehouseDeparture EventKind = "warehouse_departure" // 出库（推断）
	EventSiteDelivery       EventKind = "site_delivery"       // 现场入场
)

// Event 单箱的一次位置变化
type Event struct {
	CaseID   string    `json:"caseId"`
	At       time.Time `json:"at"`
	Month    Month     `json:"month"`
	Location string    `json:"location"`
	Kind     EventKind `json:"kind"`
}

// CaseState 单箱的终态（最后一次移动）
type CaseState struct {
	CaseID   string       `json:"caseId"`
	Location string       `json:"location"`
	Kind     LocationKind `json:"kind"`
	AsOf     Month        `json:"asOf"`
	At       time.Time    `json:"at"`
}

// InWarehouseAsOf 截至 month 是否仍在仓库 warehouse
func (s CaseState) InWarehouseAsOf(warehouse string, month Month) bool {
	return s.Kind == LocationWarehouse && s.Location == warehouse && s.AsOf <= month
}

// DeliveredAsOf 截至 month 是否已交付到现场 site
func (s CaseState) DeliveredAsOf(site string, month Month) bool {
	return s.Kind == LocationSite && s.Location == site && s.AsOf <= month
}
