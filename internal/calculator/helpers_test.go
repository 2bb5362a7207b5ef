package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"stockrecon/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(location, date string) model.LocationStamp {
	return model.LocationStamp{Location: location, At: day(date)}
}

func record(supplier, id string, qty int64, stamps ...model.LocationStamp) model.CaseRecord {
	return model.CaseRecord{
		Supplier:  supplier,
		CaseID:    id,
		Quantity:  decimal.NewFromInt(qty),
		Locations: stamps,
	}
}

func testConfig() *model.AnalysisConfig {
	return &model.AnalysisConfig{
		TargetMonth: "2025-06",
		Suppliers: []model.SupplierLayout{
			{Key: "HE", WarehouseColumns: []string{"WH_A", "WH_B", "Shifting"}},
			{Key: "SIM", WarehouseColumns: []string{"WH_A", "WH_C"}},
		},
		SiteColumns:         []string{"SITE_X", "SITE_Y"},
		ExcludedWarehouses:  []string{"Shifting"},
		IndoorWarehouses:    []string{"WH_A"},
		DangerousWarehouses: []string{"WH_C"},
	}
}

func qty(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
