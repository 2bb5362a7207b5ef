package calculator

import (
	"sort"

	"stockrecon/internal/model"
)

// MonthRange 所有观察到的移动月份（仓库与现场），不晚于 target，升序
func MonthRange(timelines []CaseTimeline, target model.Month) []model.Month {
	set := make(map[model.Month]struct{})
	for _, tl := range timelines {
		for _, mv := range tl.Movements {
			m := mv.Month()
			if m.NotAfter(target) {
				set[m] = struct{}{}
			}
		}
	}

	months := make([]model.Month, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

type eventKey struct {
	location string
	month    model.Month
	kind     model.EventKind
}

// eventIndex 按 (位置, 月份, 类型) 预聚合事件数
type eventIndex map[eventKey]int

func indexEvents(timelines []CaseTimeline) eventIndex {
	idx := make(eventIndex)
	for _, tl := range timelines {
		for _, ev := range tl.Events {
			idx[eventKey{location: ev.Location, month: ev.Month, kind: ev.Kind}]++
		}
	}
	return idx
}

func (idx eventIndex) count(location string, month model.Month, kind model.EventKind) int {
	return idx[eventKey{location: location, month: month, kind: kind}]
}

// stateIndex 每个位置的终态月份（升序），用于时点查询
type stateIndex map[model.LocationKind]map[string][]model.Month

func indexStates(timelines []CaseTimeline) stateIndex {
	// 同一供应商内箱号重复时以最后一行为准
	latest := make(map[string]model.CaseState, len(timelines))
	for _, tl := range timelines {
		latest[tl.State.CaseID] = tl.State
	}

	idx := stateIndex{
		model.LocationWarehouse: {},
		model.LocationSite:      {},
	}
	for _, st := range latest {
		byLoc, ok := idx[st.Kind]
		if !ok {
			continue
		}
		byLoc[st.Location] = append(byLoc[st.Location], st.AsOf)
	}
	for _, byLoc := range idx {
		for loc := range byLoc {
			months := byLoc[loc]
			sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
		}
	}
	return idx
}

// countAsOf 终态为 (location, kind) 且月份不晚于 month 的箱数
func (idx stateIndex) countAsOf(kind model.LocationKind, location string, month model.Month) int {
	months := idx[kind][location]
	return sort.Search(len(months), func(i int) bool { return months[i] > month })
}

// WarehouseMonthly 仓库月报：入库/出库按事件计数，在库按终态时点计数
func WarehouseMonthly(supplier string, timelines []CaseTimeline, months []model.Month, warehouses []string) model.MonthlyWarehouseTable {
	table := model.MonthlyWarehouseTable{
		Supplier:  supplier,
		Locations: append([]string(nil), warehouses...),
	}
	if len(months) == 0 {
		return table
	}

	events := indexEvents(timelines)
	states := indexStates(timelines)

	for _, m := range months {
		row := model.NewMonthlyWarehouseRow(m.String(), warehouses)
		for _, w := range warehouses {
			row.Inbound[w] = events.count(w, m, model.EventWarehouseArrival)
			row.Outbound[w] = events.count(w, m, model.EventWarehouseDeparture)
			row.Stock[w] = states.countAsOf(model.LocationWarehouse, w, m)
		}
		table.Rows = append(table.Rows, row)
	}

	table.Rows = append(table.Rows, warehouseTotal(table.Rows, warehouses))
	return table
}

// warehouseTotal 入库/出库求和，在库取最后一行
func warehouseTotal(rows []model.MonthlyWarehouseRow, warehouses []string) model.MonthlyWarehouseRow {
	total := model.NewMonthlyWarehouseRow(model.TotalLabel, warehouses)
	total.IsTotal = true
	if len(rows) == 0 {
		return total
	}
	for _, r := range rows {
		for _, w := range warehouses {
			total.Inbound[w] += r.Inbound[w]
			total.Outbound[w] += r.Outbound[w]
		}
	}
	last := rows[len(rows)-1]
	for _, w := range warehouses {
		total.Stock[w] = last.Stock[w]
	}
	return total
}

// SiteMonthly 现场月报：入场按事件计数，累计按终态时点计数
func SiteMonthly(supplier string, timelines []CaseTimeline, months []model.Month, sites []string) model.MonthlySiteTable {
	table := model.MonthlySiteTable{
		Supplier:  supplier,
		Locations: append([]string(nil), sites...),
	}
	if len(months) == 0 {
		return table
	}

	events := indexEvents(timelines)
	states := indexStates(timelines)

	for _, m := range months {
		row := model.NewMonthlySiteRow(m.String(), sites)
		for _, s := range sites {
			row.Inbound[s] = events.count(s, m, model.EventSiteDelivery)
			row.Cumulative[s] = states.countAsOf(model.LocationSite, s, m)
		}
		table.Rows = append(table.Rows, row)
	}

	total := model.NewMonthlySiteRow(model.TotalLabel, sites)
	total.IsTotal = true
	for _, r := range table.Rows {
		for _, s := range sites {
			total.Inbound[s] += r.Inbound[s]
		}
	}
	last := table.Rows[len(table.Rows)-1]
	for _, s := range sites {
		total.Cumulative[s] = last.Cumulative[s]
	}
	table.Rows = append(table.Rows, total)
	return table
}
