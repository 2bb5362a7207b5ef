package model

import "time"

// 工作表导入状态
const (
	ImportStatusImported = "imported"
	ImportStatusSkipped  = "skipped"
	ImportStatusError    = "error"
)

// SheetImportResult 单个源文件/工作表的导入结果
type SheetImportResult struct {
	Source       string        `json:"source"` // 供应商 key 或 ONHAND
	Path         string        `json:"path"`
	SheetName    string        `json:"sheetName"`
	AutoDetected bool          `json:"autoDetected"` // 配置的工作表不存在，自动识别
	HeaderRow    int           `json:"headerRow"`
	Status       string        `json:"status"`
	ImportedRows int           `json:"importedRows"`
	DroppedRows  int           `json:"droppedRows"`
	Warnings     int           `json:"warnings"` // 无法解析的日期/数字（已按空值处理）
	Errors       []string      `json:"errors,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// ImportReport 一次加载的汇总
type ImportReport struct {
	TotalSources    int                 `json:"totalSources"`
	ImportedSources int                 `json:"importedSources"`
	FailedSources   int                 `json:"failedSources"`
	ImportedRows    int                 `json:"importedRows"`
	DroppedRows     int                 `json:"droppedRows"`
	Duration        time.Duration       `json:"duration"`
	Sources         []SheetImportResult `json:"sources"`
}

// Add 累加单个来源的结果
func (r *ImportReport) Add(res SheetImportResult) {
	r.TotalSources++
	switch res.Status {
	case ImportStatusImported:
		r.ImportedSources++
	case ImportStatusError:
		r.FailedSources++
	}
	r.ImportedRows += res.ImportedRows
	r.DroppedRows += res.DroppedRows
	r.Sources = append(r.Sources, res)
}
