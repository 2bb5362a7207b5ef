package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TotalLabel 合计行的月份标签
const TotalLabel = "TOTAL"

// 固定的跨供应商工作表名
const (
	SheetFullStockList   = "Full_Stock_List"
	SheetVerification    = "Stock_Verification"
	SheetConsolidated    = "Consolidated_WH_Status"
	SheetWarehouseToSite = "Warehouse_to_Site_Flow"
)

// WarehouseSheetName 供应商仓库月报表名
func WarehouseSheetName(supplier string) string {
	return supplier + "_창고"
}

// SiteSheetName 供应商现场月报表名
func SiteSheetName(supplier string) string {
	return supplier + "_현장"
}

// MonthlyWarehouseRow 仓库月度行
type MonthlyWarehouseRow struct {
	Month    string         `json:"month"` // YYYY-MM 或 TOTAL
	IsTotal  bool           `json:"isTotal"`
	Inbound  map[string]int `json:"inbound"`
	Outbound map[string]int `json:"outbound"`
	Stock    map[string]int `json:"stock"` // 截至当月的在库箱数（时点值）
}

// NewMonthlyWarehouseRow 创建零填充的仓库月度行
func NewMonthlyWarehouseRow(month string, locations []string) MonthlyWarehouseRow {
	row := MonthlyWarehouseRow{
		Month:    month,
		Inbound:  make(map[string]int, len(locations)),
		Outbound: make(map[string]int, len(locations)),
		Stock:    make(map[string]int, len(locations)),
	}
	for _, loc := range locations {
		row.Inbound[loc] = 0
		row.Outbound[loc] = 0
		row.Stock[loc] = 0
	}
	return row
}

// MonthlyWarehouseTable 仓库月报
type MonthlyWarehouseTable struct {
	Supplier  string                `json:"supplier"`
	Locations []string              `json:"locations"`
	Rows      []MonthlyWarehouseRow `json:"rows"` // 末行为 TOTAL
}

// DataRows 不含 TOTAL 的行
func (t *MonthlyWarehouseTable) DataRows() []MonthlyWarehouseRow {
	out := make([]MonthlyWarehouseRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !r.IsTotal {
			out = append(out, r)
		}
	}
	return out
}

// Total 返回 TOTAL 行
func (t *MonthlyWarehouseTable) Total() (MonthlyWarehouseRow, bool) {
	for _, r := range t.Rows {
		if r.IsTotal {
			return r, true
		}
	}
	return MonthlyWarehouseRow{}, false
}

// MonthlySiteRow 现场月度行
type MonthlySiteRow struct {
	Month      string         `json:"month"`
	IsTotal    bool           `json:"isTotal"`
	Inbound    map[string]int `json:"inbound"`
	Cumulative map[string]int `json:"cumulative"` // 截至当月的累计入场箱数（时点值）
}

// NewMonthlySiteRow 创建零填充的现场月度行
func NewMonthlySiteRow(month string, locations []string) MonthlySiteRow {
	row := MonthlySiteRow{
		Month:      month,
		Inbound:    make(map[string]int, len(locations)),
		Cumulative: make(map[string]int, len(locations)),
	}
	for _, loc := range locations {
		row.Inbound[loc] = 0
		row.Cumulative[loc] = 0
	}
	return row
}

// MonthlySiteTable 现场月报
type MonthlySiteTable struct {
	Supplier  string           `json:"supplier"`
	Locations []string         `json:"locations"`
	Rows      []MonthlySiteRow `json:"rows"`
}

// Total 返回 TOTAL 行
func (t *MonthlySiteTable) Total() (MonthlySiteRow, bool) {
	for _, r := range t.Rows {
		if r.IsTotal {
			return r, true
		}
	}
	return MonthlySiteRow{}, false
}

// DiscrepancyRow 现存量与计算库存不一致的箱号
type DiscrepancyRow struct {
	CaseID          string          `json:"caseId"`
	CalculatedStock decimal.Decimal `json:"calculatedStock"`
	ActualQty       decimal.Decimal `json:"actualQty"`
	Discrepancy     decimal.Decimal `json:"discrepancy"` // actual - calculated
}

// FlowMatrix 仓库 -> 现场 流向矩阵
type FlowMatrix struct {
	Origins      []string                  `json:"origins"`
	Destinations []string                  `json:"destinations"`
	Counts       map[string]map[string]int `json:"counts"`
}

// Count 查询某流向的箱数
func (m *FlowMatrix) Count(origin, destination string) int {
	if m == nil || m.Counts == nil {
		return 0
	}
	return m.Counts[origin][destination]
}

// Empty 是否没有任何流向
func (m *FlowMatrix) Empty() bool {
	return m == nil || len(m.Origins) == 0 || len(m.Destinations) == 0
}

// StorageClass 仓储分类
type StorageClass string

const (
	StorageIndoor    StorageClass = "Indoor"
	StorageOutdoor   StorageClass = "Outdoor"
	StorageDangerous StorageClass = "Dangerous"
)

// StockListRow 全量库存清单行（现存量 + 首个移动记录明细）
type StockListRow struct {
	CaseID       string          `json:"caseId"`
	Quantity     decimal.Decimal `json:"quantity"`
	Supplier     string          `json:"supplier,omitempty"`
	Description  string          `json:"description,omitempty"`
	Vendor       string          `json:"vendor,omitempty"`
	SQM          decimal.Decimal `json:"sqm"`
	CBM          decimal.Decimal `json:"cbm"`
	LastLocation string          `json:"lastLocation,omitempty"`
	LastKind     LocationKind    `json:"lastKind,omitempty"`
	LastMoved    time.Time       `json:"lastMoved"`
	Storage      StorageClass    `json:"storage,omitempty"`
	Matched      bool            `json:"matched"` // 是否在移动记录中找到
}
