package exporter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"stockrecon/internal/logger"
	"stockrecon/internal/model"
)

// 报告文件名
const (
	reportPrefix     = "Warehouse_Analysis_Report_"
	reportTimeLayout = "20060102_150405"
	reportExt        = ".xlsx"
)

// Excel 工作表名最长 31 个字符
const maxSheetNameLen = 31

// 列宽范围
const (
	minColWidth = 8
	maxColWidth = 50
)

// 无任何结果时的占位工作表
const emptySheetName = "Summary"

// SheetSummary 写入的工作表与行数
type SheetSummary struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Exporter 分析报告导出器
type Exporter struct {
	log *logger.Logger
	now func() time.Time
}

// NewExporter 创建导出器
func NewExporter(log *logger.Logger) *Exporter {
	return &Exporter{
		log: logger.OrDefault(log).WithComponent("exporter"),
		now: time.Now,
	}
}

// ReportFileName 带时间戳的报告文件名
func ReportFileName(t time.Time) string {
	return reportPrefix + t.Format(reportTimeLayout) + reportExt
}

// Export 按顺序把结果表写入新工作簿
func (e *Exporter) Export(tables []model.Table, progress func(ProgressEvent)) (*excelize.File, []SheetSummary, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	reportProgress(progress, ProgressEvent{Percent: 0, Stage: "开始导出"})
	var summary []SheetSummary
	for i, t := range tables {
		if t.Empty() {
			continue
		}
		name := sheetName(t.Name)
		if len(summary) == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				_ = f.Close()
				return nil, nil, fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		if err := writeTable(f, name, t, st); err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("写入 %s 失败: %w", name, err)
		}
		summary = append(summary, SheetSummary{Name: name, Rows: len(t.Rows)})
		reportProgress(progress, ProgressEvent{Percent: (i + 1) * 100 / len(tables), Stage: "写入工作表", Sheet: name, Rows: len(t.Rows)})
	}

	if len(summary) == 0 {
		if err := f.SetSheetName("Sheet1", emptySheetName); err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		_ = f.SetCellValue(emptySheetName, "A1", "No data")
	}

	f.SetActiveSheet(0)
	reportProgress(progress, ProgressEvent{Percent: 100, Stage: "导出完成"})
	return f, summary, nil
}

// Bytes 导出为内存中的工作簿
func (e *Exporter) Bytes(tables []model.Table) ([]byte, []SheetSummary, error) {
	f, summary, err := e.Export(tables, nil)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), summary, nil
}

// SaveTo 导出到目录下带时间戳的文件，返回文件路径
func (e *Exporter) SaveTo(dir string, tables []model.Table, progress func(ProgressEvent)) (string, []SheetSummary, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("create output dir: %w", err)
	}

	f, summary, err := e.Export(tables, progress)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	path := filepath.Join(dir, ReportFileName(e.now()))
	if err := f.SaveAs(path); err != nil {
		return "", nil, fmt.Errorf("save report %s: %w", path, err)
	}

	rows := make(map[string]int, len(summary))
	for _, s := range summary {
		rows[s.Name] = s.Rows
	}
	e.log.Infow("report written", "path", path, "sheets", rows)
	return path, summary, nil
}

// styles 预先创建的单元格样式
type styles struct {
	header int
	body   map[model.ColumnKind]int
	total  map[model.ColumnKind]int
}

func newStyles(f *excelize.File) (*styles, error) {
	st := &styles{
		body:  make(map[model.ColumnKind]int),
		total: make(map[model.ColumnKind]int),
	}

	var err error
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	countFmt := "#,##0"
	quantityFmt := "#,##0.###"
	dateFmt := "yyyy-mm-dd"
	formats := map[model.ColumnKind]*string{
		model.ColumnText:     nil,
		model.ColumnCount:    &countFmt,
		model.ColumnQuantity: &quantityFmt,
		model.ColumnDate:     &dateFmt,
	}
	for kind, numFmt := range formats {
		body := &excelize.Style{CustomNumFmt: numFmt}
		total := &excelize.Style{
			CustomNumFmt: numFmt,
			Font:         &excelize.Font{Bold: true},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{"#F1F5F9"}, Pattern: 1},
			Border: []excelize.Border{
				{Type: "top", Color: "#64748B", Style: 1},
			},
		}
		if st.body[kind], err = f.NewStyle(body); err != nil {
			return nil, fmt.Errorf("create %s style: %w", kind, err)
		}
		if st.total[kind], err = f.NewStyle(total); err != nil {
			return nil, fmt.Errorf("create %s total style: %w", kind, err)
		}
	}
	return st, nil
}

func writeTable(f *excelize.File, sheet string, t model.Table, st *styles) error {
	widths := make([]int, len(t.Columns))

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Header
		widths[i] = utf8.RuneCountInString(c.Header)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = cellValue(v)
			if c < len(widths) {
				if n := displayWidth(v); n > widths[c] {
					widths[c] = n
				}
			}
		}
		ref, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
			return err
		}
	}

	lastRow := len(t.Rows) + 1
	for i, c := range t.Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, col+"1", col+"1", st.header); err != nil {
			return err
		}
		if lastRow > 1 {
			if err := f.SetCellStyle(sheet, col+"2", fmt.Sprintf("%s%d", col, lastRow), st.body[c.Kind]); err != nil {
				return err
			}
		}
		if t.TotalRow >= 0 && t.TotalRow < len(t.Rows) {
			cell := fmt.Sprintf("%s%d", col, t.TotalRow+2)
			if err := f.SetCellStyle(sheet, cell, cell, st.total[c.Kind]); err != nil {
				return err
			}
		}
		if err := f.SetColWidth(sheet, col, col, float64(clampWidth(widths[i]+2))); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cellValue 转成 excelize 可写入的值
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x
	default:
		return v
	}
}

func displayWidth(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(x)
	case decimal.Decimal:
		return len(x.String())
	case time.Time:
		return len("2006-01-02")
	default:
		return utf8.RuneCountInString(fmt.Sprint(x))
	}
}

func clampWidth(w int) int {
	if w < minColWidth {
		return minColWidth
	}
	if w > maxColWidth {
		return maxColWidth
	}
	return w
}

// sheetName 截断超长的工作表名
func sheetName(name string) string {
	if utf8.RuneCountInString(name) <= maxSheetNameLen {
		return name
	}
	return string([]rune(name)[:maxSheetNameLen])
}
