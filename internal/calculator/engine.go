package calculator

import (
	"github.com/shopspring/decimal"

	"stockrecon/internal/apperror"
	"stockrecon/internal/logger"
	"stockrecon/internal/model"
)

// Engine 库存状态重建与对账引擎
type Engine struct {
	cfg *model.AnalysisConfig
	log *logger.Logger
}

// NewEngine 创建引擎
func NewEngine(cfg *model.AnalysisConfig, log *logger.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: logger.OrDefault(log).WithComponent("calculator"),
	}
}

// SupplierResult 单个供应商的分析结果
type SupplierResult struct {
	Supplier  string
	Timelines []CaseTimeline
	Skipped   int // 没有任何日期的记录数
	Months    []model.Month
	Warehouse model.MonthlyWarehouseTable
	Site      model.MonthlySiteTable
}

// Result 一次分析的全部结果
type Result struct {
	Suppliers     []SupplierResult
	Consolidated  model.MonthlyWarehouseTable
	Flow          model.FlowMatrix
	Discrepancies []model.DiscrepancyRow
	StockList     []model.StockListRow

	VerificationSkipped bool
	StockListSkipped    bool
}

// Run 基于已加载的数据重新计算全部结果
func (e *Engine) Run(ds *model.Dataset) *Result {
	res := &Result{}
	if ds == nil {
		ds = &model.Dataset{}
	}

	var (
		warehouseTables []model.MonthlyWarehouseTable
		sequences       [][]model.RawMovement
	)

	for _, supplier := range e.cfg.SupplierKeys() {
		sr := e.analyzeSupplier(supplier, ds.Movements[supplier])
		res.Suppliers = append(res.Suppliers, sr)
		if len(sr.Warehouse.Rows) > 0 {
			warehouseTables = append(warehouseTables, sr.Warehouse)
		}
		for _, tl := range sr.Timelines {
			sequences = append(sequences, tl.Movements)
		}
	}

	res.Consolidated = Consolidate(warehouseTables, e.cfg.IsExcluded)
	if len(res.Consolidated.Rows) == 0 {
		e.warnEmpty("consolidation")
	}

	res.Flow = FlowMatrix(sequences, e.cfg.IsExcluded)
	if res.Flow.Empty() {
		e.warnEmpty("flow matrix")
	}

	res.Discrepancies, res.VerificationSkipped = e.verify(ds)

	if len(ds.OnHand) == 0 {
		res.StockListSkipped = true
		e.log.Warnw("no on-hand data, full stock list skipped")
	} else {
		res.StockList = StockList(e.cfg, ds.OnHand, ds.Movements)
	}

	return res
}

func (e *Engine) analyzeSupplier(supplier string, records []model.CaseRecord) SupplierResult {
	sr := SupplierResult{Supplier: supplier}
	warehouses := e.cfg.WarehouseColumns(supplier)
	sites := e.cfg.Sites()

	if len(records) == 0 {
		e.warnEmpty("supplier monthly", "supplier", supplier)
		sr.Warehouse = model.MonthlyWarehouseTable{Supplier: supplier, Locations: warehouses}
		sr.Site = model.MonthlySiteTable{Supplier: supplier, Locations: sites}
		return sr
	}

	sr.Timelines, sr.Skipped = BuildTimelines(records, warehouses, sites)
	sr.Months = MonthRange(sr.Timelines, e.cfg.TargetMonth)
	sr.Warehouse = WarehouseMonthly(supplier, sr.Timelines, sr.Months, warehouses)
	sr.Site = SiteMonthly(supplier, sr.Timelines, sr.Months, sites)

	if len(sr.Months) == 0 {
		e.warnEmpty("supplier monthly", "supplier", supplier)
	}
	e.log.Infow("supplier analyzed",
		"supplier", supplier,
		"records", len(records),
		"cases_with_movements", len(sr.Timelines),
		"cases_without_dates", sr.Skipped,
		"months", len(sr.Months),
	)
	return sr
}

// verify 返回差异行以及是否跳过了对账
func (e *Engine) verify(ds *model.Dataset) ([]model.DiscrepancyRow, bool) {
	if len(ds.OnHand) == 0 {
		e.log.Warnw("no on-hand data, stock verification skipped")
		return nil, true
	}

	calculated, hasMovement := CalculatedStock(e.cfg, ds.Movements)
	if !hasMovement {
		e.warnEmpty("stock verification")
		return nil, true
	}

	rows := Reconcile(calculated, ActualOnHand(ds.OnHand))
	e.log.Infow("stock verification complete",
		"calculated_cases", len(calculated),
		"discrepancies", len(rows),
		"net_discrepancy", sumDiscrepancy(rows).String(),
	)
	return rows, false
}

func (e *Engine) warnEmpty(step string, keysAndValues ...any) {
	err := apperror.NewEmptyInputSet(step)
	e.log.Warnw(err.Message, append([]any{"code", err.Code}, keysAndValues...)...)
}

func sumDiscrepancy(rows []model.DiscrepancyRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Discrepancy)
	}
	return total
}
