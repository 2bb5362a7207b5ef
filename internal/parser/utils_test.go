package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Case No. ":      "case no.",
		"DSV   Indoor":     "dsv indoor",
		"Q'TY\n":           "q'ty",
		"L(CM)":            "l(cm)",
		"\tGross\t Weight": "gross weight",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("NormalizeColumnName(%q) want=%q got=%q", in, want, got)
		}
	}
}

func TestParseDate_TextLayouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2025-01-15",
		"2025/01/15",
		"2025.01.15",
		" 2025-01-15 00:00:00 ",
		"15/01/2025",
		"15-Jan-2025",
		"15-Jan-25",
	} {
		got, ok := ParseDate(in)
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseDate(%q) want=%v got=%v ok=%v", in, want, got, ok)
		}
	}
}

func TestParseDate_ExcelSerial(t *testing.T) {
	t.Parallel()

	got, ok := ParseDate("45672")
	if !ok {
		t.Fatalf("serial date should parse")
	}
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 15 {
		t.Fatalf("serial 45672 want=2025-01-15 got=%v", got)
	}
}

func TestParseDate_Rejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "  ", "TBD", "2025-13-01", "-5", "99999999"} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("ParseDate(%q) should fail", in)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	type tc struct {
		raw, unit   string
		hasColumn   bool
		want        int64
		wantInvalid bool
	}
	cases := []tc{
		{raw: "", hasColumn: false, want: 1},
		{raw: "3", hasColumn: true, want: 3},
		{raw: "1,200", hasColumn: true, want: 1200},
		{raw: "", unit: "EA", hasColumn: true, want: 1},
		{raw: "", unit: " pcs ", hasColumn: true, want: 1},
		{raw: "", unit: "BOX", hasColumn: true, want: 0},
		{raw: "n/a", unit: "EA.", hasColumn: true, want: 1, wantInvalid: true},
		{raw: "n/a", unit: "KG", hasColumn: true, want: 0, wantInvalid: true},
		{raw: "-4", hasColumn: true, want: 0},
	}
	for _, c := range cases {
		got, invalid := ParseQuantity(c.raw, c.unit, c.hasColumn)
		if !got.Equal(decimal.NewFromInt(c.want)) || invalid != c.wantInvalid {
			t.Fatalf("ParseQuantity(%q,%q,%v) want=%d/%v got=%s/%v", c.raw, c.unit, c.hasColumn, c.want, c.wantInvalid, got, invalid)
		}
	}
}

func TestParseDimension_Centimeters(t *testing.T) {
	t.Parallel()

	got, _ := ParseDimension("250", true)
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("250cm want=2.5 got=%s", got)
	}
	got, _ = ParseDimension("1.2", false)
	if !got.Equal(decimal.RequireFromString("1.2")) {
		t.Fatalf("1.2m want=1.2 got=%s", got)
	}
	got, invalid := ParseDimension("abc", true)
	if !got.IsZero() || !invalid {
		t.Fatalf("invalid dimension want=0/true got=%s/%v", got, invalid)
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	if got := CleanText(" 1001.0 "); got != "1001" {
		t.Fatalf("want=1001 got=%q", got)
	}
	if got := CleanText("HE-1.0"); got != "HE-1.0" {
		t.Fatalf("want=HE-1.0 got=%q", got)
	}
}
