package importer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"stockrecon/internal/logger"
	"stockrecon/internal/model"
)

func writeWorkbook(t *testing.T, name, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoad_SuppliersAndOnHand(t *testing.T) {
	t.Parallel()

	hePath := writeWorkbook(t, "he.xlsx", "Case List", [][]any{
		{"HE Warehouse Tracking"},
		{"Case No.", "Q'ty", "DSV Indoor", "DAS"},
		{"C1", 5, "2025-01-15", "2025-02-10"},
		{"C2", 1, 45672, ""},
		{"", 3, "2025-01-01", ""},
	})
	onHandPath := writeWorkbook(t, "onhand.xlsx", "Stock", [][]any{
		{"Case No", "Qty"},
		{"C1", 5},
	})

	plan := Plan{
		OnHand: SourceSpec{Path: onHandPath},
		Suppliers: []SourceSpec{
			{Key: "HE", Path: hePath, Sheet: "Case List", Warehouses: []string{"DSV Indoor"}},
		},
		Sites: []string{"DAS"},
	}

	res, err := NewCoordinator(logger.Nop()).Load(context.Background(), plan)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	he := res.Dataset.Movements["HE"]
	if len(he) != 2 {
		t.Fatalf("HE records want=2 got=%d", len(he))
	}
	if at, ok := he[1].Timestamp("DSV Indoor"); !ok || at.Format("2006-01-02") != "2025-01-15" {
		t.Fatalf("numeric serial date should parse, got %v ok=%v", at, ok)
	}
	if len(res.Dataset.OnHand) != 1 {
		t.Fatalf("on-hand records want=1 got=%d", len(res.Dataset.OnHand))
	}

	r := res.Report
	if r.TotalSources != 2 || r.ImportedSources != 2 || r.FailedSources != 0 {
		t.Fatalf("unexpected report: %+v", r)
	}
	if r.DroppedRows != 1 {
		t.Fatalf("dropped rows want=1 got=%d", r.DroppedRows)
	}
	if r.Sources[0].HeaderRow != 2 {
		t.Fatalf("header row want=2 got=%d", r.Sources[0].HeaderRow)
	}
}

func TestLoad_SupplierFailureIsIsolated(t *testing.T) {
	t.Parallel()

	good := writeWorkbook(t, "sim.xlsx", "Sheet1", [][]any{
		{"Case No", "WH_A"},
		{"S1", "2025-03-01"},
	})
	noCaseColumn := writeWorkbook(t, "bad.xlsx", "Sheet1", [][]any{
		{"Item", "WH_A"},
		{"x", "2025-03-01"},
	})

	plan := Plan{
		Suppliers: []SourceSpec{
			{Key: "MISSING", Path: filepath.Join(t.TempDir(), "nope.xlsx"), Warehouses: []string{"WH_A"}},
			{Key: "BAD", Path: noCaseColumn, Warehouses: []string{"WH_A"}},
			{Key: "SIM", Path: good, Warehouses: []string{"WH_A"}},
		},
		Sites: []string{"SITE"},
	}

	res, err := NewCoordinator(logger.Nop()).Load(context.Background(), plan)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Report.FailedSources != 2 || res.Report.ImportedSources != 1 {
		t.Fatalf("want 2 failed and 1 imported, got %+v", res.Report)
	}
	for i, key := range []string{"MISSING", "BAD", "SIM"} {
		if res.Report.Sources[i].Source != key {
			t.Fatalf("report order must follow plan order, got %s at %d", res.Report.Sources[i].Source, i)
		}
	}
	if _, ok := res.Dataset.Movements["BAD"]; ok {
		t.Fatalf("failed supplier must not contribute records")
	}
	if len(res.Dataset.Movements["SIM"]) != 1 {
		t.Fatalf("SIM should still load")
	}
	if res.Dataset.OnHand != nil {
		t.Fatalf("on-hand should be absent when not configured")
	}
}

func TestLoad_AutoDetectsSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "he.xlsx", "Data", [][]any{
		{"Case No", "WH_A"},
		{"C1", "2025-03-01"},
	})
	plan := Plan{
		Suppliers: []SourceSpec{{Key: "HE", Path: path, Sheet: "Case List", Warehouses: []string{"WH_A"}}},
	}

	res, err := NewCoordinator(logger.Nop()).Load(context.Background(), plan)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	src := res.Report.Sources[0]
	if src.Status != model.ImportStatusImported || !src.AutoDetected || src.SheetName != "Data" {
		t.Fatalf("want auto-detected Data sheet, got %+v", src)
	}
}

func TestImport_ProgressEndsWithDone(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "he.xlsx", "Sheet1", [][]any{
		{"Case No", "WH_A"},
		{"C1", "2025-03-01"},
	})
	ch := NewCoordinator(logger.Nop()).Import(context.Background(), Plan{
		Suppliers: []SourceSpec{{Key: "HE", Path: path, Warehouses: []string{"WH_A"}}},
	})

	var last ProgressEvent
	for evt := range ch {
		if evt.Type == "error" {
			t.Fatalf("import error event: %s", evt.Message)
		}
		last = evt
	}
	if last.Type != "done" {
		t.Fatalf("last event want=done got=%s", last.Type)
	}
	res, ok := last.Data.(*LoadResult)
	if !ok || len(res.Dataset.Movements["HE"]) != 1 {
		t.Fatalf("unexpected done payload: %T", last.Data)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCoordinator(logger.Nop()).Load(ctx, Plan{
		Suppliers: []SourceSpec{{Key: "HE", Path: "whatever.xlsx"}},
	})
	if err == nil {
		t.Fatalf("canceled context should abort loading")
	}
}
