package parser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMovementParser_ParseRows(t *testing.T) {
	t.Parallel()

	p := NewMovementParser("HE", []string{"DSV Indoor", "DSV Outdoor"}, []string{"DAS", "MIR"}, nil)
	rows := [][]string{
		{"Case No.", "Q'ty", "Unit", "L(cm)", "W(cm)", "H(cm)", "DSV Indoor", "DSV Outdoor", "DAS", "MIR"},
		{"1001.0", "2", "EA", "200", "100", "50", "45672", "", "2025-02-10", ""},
		{"", "3", "", "", "", "", "2025-01-01", "", "", ""},
		{},
		{"1002", "", "PCS", "", "", "", "", "TBD", "", "2025/03/01"},
	}

	header := p.Recognizer().DetectHeader("Case List", rows)
	records, res := p.ParseRows(header, rows)

	if len(records) != 2 || res.ImportedRows != 2 {
		t.Fatalf("records want=2 got=%d", len(records))
	}
	if res.DroppedRows != 1 {
		t.Fatalf("row without case id should be dropped, got %d", res.DroppedRows)
	}
	if res.Warnings != 1 || len(res.Errors) != 2 {
		t.Fatalf("want 1 warning (TBD date) and 2 errors, got %d/%v", res.Warnings, res.Errors)
	}

	r1 := records[0]
	if r1.CaseID != "1001" || r1.Supplier != "HE" || r1.RowNumber != 2 {
		t.Fatalf("unexpected first record: %+v", r1)
	}
	if !r1.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("quantity want=2 got=%s", r1.Quantity)
	}
	if !r1.SQM.Equal(decimal.RequireFromString("2")) || !r1.CBM.Equal(decimal.RequireFromString("1")) {
		t.Fatalf("sqm/cbm want=2/1 got=%s/%s", r1.SQM, r1.CBM)
	}
	if len(r1.Locations) != 4 || r1.Locations[0].Location != "DSV Indoor" || r1.Locations[2].Location != "DAS" {
		t.Fatalf("locations should follow configured order: %+v", r1.Locations)
	}
	if at, ok := r1.Timestamp("DSV Indoor"); !ok || at.Format("2006-01-02") != "2025-01-15" {
		t.Fatalf("DSV Indoor want=2025-01-15 got=%v", at)
	}

	r2 := records[1]
	if !r2.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("blank quantity with PCS unit want=1 got=%s", r2.Quantity)
	}
	if _, ok := r2.Timestamp("DSV Outdoor"); ok {
		t.Fatalf("unparseable date must be treated as absent")
	}
	if _, ok := r2.Timestamp("MIR"); !ok {
		t.Fatalf("MIR date should parse")
	}
}

func TestMovementParser_NoHeader(t *testing.T) {
	t.Parallel()

	p := NewMovementParser("HE", []string{"WH"}, []string{"SITE"}, nil)
	rows := [][]string{{"Item", "Qty"}, {"x", "1"}}
	records, res := p.ParseRows(p.Recognizer().DetectHeader("Sheet1", rows), rows)
	if len(records) != 0 || len(res.Errors) != 1 {
		t.Fatalf("missing case column should yield no records and one error, got %d/%v", len(records), res.Errors)
	}
}

func TestOnHandParser_ParseRows(t *testing.T) {
	t.Parallel()

	p := NewOnHandParser(nil)
	rows := [][]string{
		{"Case No", "Qty"},
		{"C1", "5"},
		{"C1", "2"},
		{"C2", "abc"},
		{"", "9"},
	}
	records, res := p.ParseRows(p.Recognizer().DetectHeader("Stock", rows), rows)
	if len(records) != 3 || res.DroppedRows != 1 || res.Warnings != 1 {
		t.Fatalf("unexpected parse result: records=%d %+v", len(records), res)
	}
	if !records[2].Quantity.IsZero() {
		t.Fatalf("unparseable quantity without each unit want=0 got=%s", records[2].Quantity)
	}
}
