package calculator

import (
	"sort"

	"stockrecon/internal/model"
)

// Consolidate 合并各供应商仓库月报
//
// 按月份分组：入库/出库求和；在库取最后一个（按供应商顺序）带该列该月的值。
// 排除仓库的列不进入合并结果。各表的 TOTAL 行不参与，合并后重新计算 TOTAL。
func Consolidate(tables []model.MonthlyWarehouseTable, excluded func(string) bool) model.MonthlyWarehouseTable {
	var locations []string
	seenLoc := make(map[string]bool)
	for _, t := range tables {
		for _, loc := range t.Locations {
			if seenLoc[loc] || (excluded != nil && excluded(loc)) {
				continue
			}
			seenLoc[loc] = true
			locations = append(locations, loc)
		}
	}

	byMonth := make(map[string]*model.MonthlyWarehouseRow)
	for _, t := range tables {
		for _, r := range t.Rows {
			if r.IsTotal {
				continue
			}
			row, ok := byMonth[r.Month]
			if !ok {
				nr := model.NewMonthlyWarehouseRow(r.Month, locations)
				row = &nr
				byMonth[r.Month] = row
			}
			for _, loc := range t.Locations {
				if !seenLoc[loc] {
					continue
				}
				row.Inbound[loc] += r.Inbound[loc]
				row.Outbound[loc] += r.Outbound[loc]
				row.Stock[loc] = r.Stock[loc]
			}
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := model.MonthlyWarehouseTable{Locations: locations}
	if len(months) == 0 {
		return out
	}
	for _, m := range months {
		out.Rows = append(out.Rows, *byMonth[m])
	}
	out.Rows = append(out.Rows, warehouseTotal(out.Rows, locations))
	return out
}
