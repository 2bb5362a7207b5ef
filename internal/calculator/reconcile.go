package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stockrecon/internal/model"
)

// locationTriple 展开后的 (箱号, 位置, 日期) 行
type locationTriple struct {
	caseID   string
	location string
	at       time.Time
	quantity decimal.Decimal
}

// CalculatedStock 由移动记录独立推算每箱的在库数量
//
// 每个供应商：展开全部位置列，丢弃无日期的行，按 (箱号, 日期) 排序后取每箱最后一行；
// 仅保留最后位置为仓库的箱，按箱号汇总数量。第二个返回值表示是否存在任何移动数据。
func CalculatedStock(cfg *model.AnalysisConfig, movements map[string][]model.CaseRecord) (map[string]decimal.Decimal, bool) {
	stock := make(map[string]decimal.Decimal)
	hasMovement := false

	for _, supplier := range cfg.SupplierKeys() {
		records := movements[supplier]
		if len(records) == 0 {
			continue
		}

		warehouses := cfg.WarehouseColumns(supplier)
		isWarehouse := make(map[string]bool, len(warehouses))
		for _, w := range warehouses {
			isWarehouse[w] = true
		}
		locations := cfg.LocationColumns(supplier)

		triples := make([]locationTriple, 0, len(records))
		for i := range records {
			rec := &records[i]
			for _, loc := range locations {
				at, ok := rec.Timestamp(loc)
				if !ok {
					continue
				}
				triples = append(triples, locationTriple{
					caseID:   rec.CaseID,
					location: loc,
					at:       at,
					quantity: rec.Quantity,
				})
			}
		}
		if len(triples) == 0 {
			continue
		}
		hasMovement = true

		sort.SliceStable(triples, func(i, j int) bool {
			if triples[i].caseID != triples[j].caseID {
				return triples[i].caseID < triples[j].caseID
			}
			return triples[i].at.Before(triples[j].at)
		})

		for i, t := range triples {
			isLast := i == len(triples)-1 || triples[i+1].caseID != t.caseID
			if !isLast || !isWarehouse[t.location] {
				continue
			}
			stock[t.caseID] = stock[t.caseID].Add(t.quantity)
		}
	}

	return stock, hasMovement
}

// ActualOnHand 现存量按箱号汇总（重复箱号数量相加）
func ActualOnHand(onHand []model.OnHandRecord) map[string]decimal.Decimal {
	actual := make(map[string]decimal.Decimal, len(onHand))
	for _, r := range onHand {
		actual[r.CaseID] = actual[r.CaseID].Add(r.Quantity)
	}
	return actual
}

// Reconcile 计算库存与现存量全外连接，缺失侧按 0，仅输出差异不为 0 的箱号
func Reconcile(calculated, actual map[string]decimal.Decimal) []model.DiscrepancyRow {
	ids := make(map[string]struct{}, len(calculated)+len(actual))
	for id := range calculated {
		ids[id] = struct{}{}
	}
	for id := range actual {
		ids[id] = struct{}{}
	}

	rows := make([]model.DiscrepancyRow, 0)
	for id := range ids {
		calc := calculated[id]
		act := actual[id]
		diff := act.Sub(calc)
		if diff.IsZero() {
			continue
		}
		rows = append(rows, model.DiscrepancyRow{
			CaseID:          id,
			CalculatedStock: calc,
			ActualQty:       act,
			Discrepancy:     diff,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CaseID < rows[j].CaseID })
	return rows
}
