package parser

import "time"

// Field 标准字段
type Field string

const (
	FieldCaseNo      Field = "case_no"
	FieldQuantity    Field = "quantity"
	FieldDescription Field = "description"
	FieldVendor      Field = "vendor"
	FieldUnit        Field = "unit"
	FieldLength      Field = "length"
	FieldWidth       Field = "width"
	FieldHeight      Field = "height"
	FieldGrossWeight Field = "gross_weight"
	FieldHSCode      Field = "hs_code"
	FieldIncoterm    Field = "incoterm"
	FieldPackageType Field = "package_type"
)

// StandardFields 按解析优先级排列的标准字段
var StandardFields = []Field{
	FieldCaseNo,
	FieldQuantity,
	FieldDescription,
	FieldVendor,
	FieldUnit,
	FieldLength,
	FieldWidth,
	FieldHeight,
	FieldGrossWeight,
	FieldHSCode,
	FieldIncoterm,
	FieldPackageType,
}

// HeaderScanRows 表头识别扫描的最大行数
const HeaderScanRows = 10

// maxRowErrors 单个工作表最多保留的行级错误数
const maxRowErrors = 50

// FieldMapping 字段映射结果
type FieldMapping struct {
	ColumnIndex int    `json:"columnIndex"` // Excel 列索引（0 起）
	ColumnName  string `json:"columnName"`  // 原始表头
	Field       Field  `json:"field,omitempty"`
	Location    string `json:"location,omitempty"` // 位置列：配置中的位置名
	Centimeter  bool   `json:"centimeter,omitempty"`
}

// ColumnMapping 一个表头的全部映射
type ColumnMapping struct {
	Fields    map[Field]FieldMapping
	Locations map[string]FieldMapping
}

// Has 是否映射到了某字段
func (m ColumnMapping) Has(f Field) bool {
	_, ok := m.Fields[f]
	return ok
}

// SheetRecognitionResult 工作表识别结果
type SheetRecognitionResult struct {
	SheetName    string        `json:"sheetName"`
	HeaderRow    int           `json:"headerRow"` // 表头所在行（1 起），0 表示未识别
	Headers      []string      `json:"headers"`
	Mapping      ColumnMapping `json:"-"`
	AutoDetected bool          `json:"autoDetected"`
}

// Found 是否识别到了包含箱号列的表头
func (r SheetRecognitionResult) Found() bool {
	return r.HeaderRow > 0
}

// ParseResult 单个工作表的解析统计
type ParseResult struct {
	SheetName    string        `json:"sheetName"`
	HeaderRow    int           `json:"headerRow"`
	ImportedRows int           `json:"importedRows"`
	DroppedRows  int           `json:"droppedRows"`
	Warnings     int           `json:"warnings"`
	Errors       []string      `json:"errors,omitempty"`
	Duration     time.Duration `json:"duration"`
}

func (r *ParseResult) addError(err error) {
	if len(r.Errors) < maxRowErrors {
		r.Errors = append(r.Errors, err.Error())
	}
}
