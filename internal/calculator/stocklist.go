package calculator

import (
	"stockrecon/internal/model"
)

// StockList 全量库存清单：现存量逐行左连接首个移动记录（按供应商配置顺序）的明细
func StockList(cfg *model.AnalysisConfig, onHand []model.OnHandRecord, movements map[string][]model.CaseRecord) []model.StockListRow {
	type detail struct {
		rec   *model.CaseRecord
		moves []model.RawMovement
	}

	first := make(map[string]detail)
	for _, supplier := range cfg.SupplierKeys() {
		records := movements[supplier]
		warehouses := cfg.WarehouseColumns(supplier)
		for i := range records {
			rec := &records[i]
			if _, ok := first[rec.CaseID]; ok {
				continue
			}
			first[rec.CaseID] = detail{
				rec:   rec,
				moves: ExtractMovements(rec, warehouses, cfg.SiteColumns),
			}
		}
	}

	rows := make([]model.StockListRow, 0, len(onHand))
	for _, oh := range onHand {
		row := model.StockListRow{
			CaseID:   oh.CaseID,
			Quantity: oh.Quantity,
		}
		d, ok := first[oh.CaseID]
		if ok {
			row.Matched = true
			row.Supplier = d.rec.Supplier
			row.Description = d.rec.Description
			row.Vendor = d.rec.Vendor
			row.SQM = d.rec.SQM
			row.CBM = d.rec.CBM

			lastWarehouse := ""
			for _, mv := range d.moves {
				if mv.Kind == model.MovementWarehouseIn {
					lastWarehouse = mv.Location
				}
			}
			if n := len(d.moves); n > 0 {
				last := d.moves[n-1]
				row.LastLocation = last.Location
				row.LastKind = last.Kind.LocationKind()
				row.LastMoved = last.At
			}
			if lastWarehouse != "" {
				row.Storage = cfg.StorageClassOf(lastWarehouse)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
