package calculator

import (
	"stockrecon/internal/model"
)

// 月报列名后缀
const (
	suffixInbound    = "_입고"
	suffixOutbound   = "_출고"
	suffixStock      = "_재고"
	suffixCumulative = "_누적"
)

// Tables 按输出顺序生成全部结果表（空表已剔除）
func (r *Result) Tables() []model.Table {
	var tables []model.Table
	add := func(t model.Table) {
		if !t.Empty() {
			tables = append(tables, t)
		}
	}

	add(StockListTable(r.StockList))
	add(DiscrepancyTable(r.Discrepancies))
	for _, sr := range r.Suppliers {
		add(WarehouseTable(model.WarehouseSheetName(sr.Supplier), sr.Warehouse))
		add(SiteTable(model.SiteSheetName(sr.Supplier), sr.Site))
	}
	add(WarehouseTable(model.SheetConsolidated, r.Consolidated))
	add(FlowTable(r.Flow))
	return tables
}

// Sheets 表名 -> 结果表
func (r *Result) Sheets() map[string]model.Table {
	out := make(map[string]model.Table)
	for _, t := range r.Tables() {
		out[t.Name] = t
	}
	return out
}

// WarehouseTable 仓库月报 -> 结果表
func WarehouseTable(name string, t model.MonthlyWarehouseTable) model.Table {
	out := model.Table{Name: name, TotalRow: -1}
	out.Columns = append(out.Columns, model.Column{Header: "Month", Kind: model.ColumnText})
	for _, loc := range t.Locations {
		out.Columns = append(out.Columns,
			model.Column{Header: loc + suffixInbound, Kind: model.ColumnCount},
			model.Column{Header: loc + suffixOutbound, Kind: model.ColumnCount},
			model.Column{Header: loc + suffixStock, Kind: model.ColumnCount},
		)
	}

	for _, r := range t.Rows {
		cells := make([]any, 0, len(out.Columns))
		cells = append(cells, r.Month)
		for _, loc := range t.Locations {
			cells = append(cells, r.Inbound[loc], r.Outbound[loc], r.Stock[loc])
		}
		if r.IsTotal {
			out.TotalRow = len(out.Rows)
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// SiteTable 现场月报 -> 结果表
func SiteTable(name string, t model.MonthlySiteTable) model.Table {
	out := model.Table{Name: name, TotalRow: -1}
	out.Columns = append(out.Columns, model.Column{Header: "Month", Kind: model.ColumnText})
	for _, loc := range t.Locations {
		out.Columns = append(out.Columns,
			model.Column{Header: loc + suffixInbound, Kind: model.ColumnCount},
			model.Column{Header: loc + suffixCumulative, Kind: model.ColumnCount},
		)
	}

	for _, r := range t.Rows {
		cells := make([]any, 0, len(out.Columns))
		cells = append(cells, r.Month)
		for _, loc := range t.Locations {
			cells = append(cells, r.Inbound[loc], r.Cumulative[loc])
		}
		if r.IsTotal {
			out.TotalRow = len(out.Rows)
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// DiscrepancyTable 对账差异 -> 结果表
func DiscrepancyTable(rows []model.DiscrepancyRow) model.Table {
	out := model.Table{
		Name:     model.SheetVerification,
		TotalRow: -1,
		Columns: []model.Column{
			{Header: "Case No.", Kind: model.ColumnText},
			{Header: "CalculatedStock", Kind: model.ColumnQuantity},
			{Header: "ActualQty", Kind: model.ColumnQuantity},
			{Header: "Discrepancy", Kind: model.ColumnQuantity},
		},
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, []any{r.CaseID, r.CalculatedStock, r.ActualQty, r.Discrepancy})
	}
	return out
}

// FlowTable 流向矩阵 -> 结果表
func FlowTable(m model.FlowMatrix) model.Table {
	out := model.Table{Name: model.SheetWarehouseToSite, TotalRow: -1}
	if m.Empty() {
		return out
	}

	out.Columns = append(out.Columns, model.Column{Header: "Origin \\ Destination", Kind: model.ColumnText})
	for _, d := range m.Destinations {
		out.Columns = append(out.Columns, model.Column{Header: d, Kind: model.ColumnCount})
	}
	for _, o := range m.Origins {
		cells := make([]any, 0, len(out.Columns))
		cells = append(cells, o)
		for _, d := range m.Destinations {
			cells = append(cells, m.Count(o, d))
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// StockListTable 全量库存清单 -> 结果表
func StockListTable(rows []model.StockListRow) model.Table {
	out := model.Table{
		Name:     model.SheetFullStockList,
		TotalRow: -1,
		Columns: []model.Column{
			{Header: "Case No.", Kind: model.ColumnText},
			{Header: "Quantity", Kind: model.ColumnQuantity},
			{Header: "Supplier", Kind: model.ColumnText},
			{Header: "Description", Kind: model.ColumnText},
			{Header: "Vendor", Kind: model.ColumnText},
			{Header: "SQM", Kind: model.ColumnQuantity},
			{Header: "CBM", Kind: model.ColumnQuantity},
			{Header: "Last Location", Kind: model.ColumnText},
			{Header: "Location Type", Kind: model.ColumnText},
			{Header: "Last Move", Kind: model.ColumnDate},
			{Header: "Storage", Kind: model.ColumnText},
		},
	}
	for _, r := range rows {
		var lastMoved any
		if !r.LastMoved.IsZero() {
			lastMoved = r.LastMoved
		}
		out.Rows = append(out.Rows, []any{
			r.CaseID, r.Quantity, r.Supplier, r.Description, r.Vendor,
			r.SQM, r.CBM, r.LastLocation, string(r.LastKind), lastMoved, string(r.Storage),
		})
	}
	return out
}
