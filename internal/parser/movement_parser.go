package parser

import (
	"strings"
	"time"

	"stockrecon/internal/apperror"
	"stockrecon/internal/model"
)

// MovementParser 供应商移动表解析器
type MovementParser struct {
	supplier   string
	warehouses []string
	sites      []string
	recognizer *SheetRecognizer
}

// NewMovementParser 创建移动表解析器
func NewMovementParser(supplier string, warehouses, sites []string, aliases map[string][]string) *MovementParser {
	locations := make([]string, 0, len(warehouses)+len(sites))
	locations = append(locations, warehouses...)
	locations = append(locations, sites...)
	return &MovementParser{
		supplier:   supplier,
		warehouses: warehouses,
		sites:      sites,
		recognizer: NewSheetRecognizer(NewColumnResolver(aliases, locations)),
	}
}

// Recognizer 供导入器选择工作表
func (p *MovementParser) Recognizer() *SheetRecognizer {
	return p.recognizer
}

// ParseRows 解析表头行之后的数据行
//
// 缺少箱号的行丢弃；无法解析的日期按缺失处理并计入警告。
func (p *MovementParser) ParseRows(header SheetRecognitionResult, rows [][]string) ([]model.CaseRecord, ParseResult) {
	start := time.Now()
	result := ParseResult{SheetName: header.SheetName, HeaderRow: header.HeaderRow}
	if !header.Found() {
		result.addError(apperror.NewMissingRequiredField(string(FieldCaseNo), 0))
		return nil, result
	}

	mapping := header.Mapping
	var records []model.CaseRecord
	for i := header.HeaderRow; i < len(rows); i++ {
		row := rows[i]
		rowNo := i + 1
		if isBlankRow(row) {
			continue
		}

		rec, ok := p.parseRow(row, rowNo, mapping, &result)
		if !ok {
			result.DroppedRows++
			continue
		}
		records = append(records, rec)
	}

	result.ImportedRows = len(records)
	result.Duration = time.Since(start)
	return records, result
}

func (p *MovementParser) parseRow(row []string, rowNo int, mapping ColumnMapping, result *ParseResult) (model.CaseRecord, bool) {
	rec := model.CaseRecord{Supplier: p.supplier, RowNumber: rowNo}

	rec.CaseID = CleanText(cell(row, mapping.Fields[FieldCaseNo].ColumnIndex))
	if rec.CaseID == "" {
		result.addError(apperror.NewMissingRequiredField(string(FieldCaseNo), rowNo))
		return rec, false
	}

	text := func(f Field) string {
		fm, ok := mapping.Fields[f]
		if !ok {
			return ""
		}
		return strings.TrimSpace(cell(row, fm.ColumnIndex))
	}
	rec.Description = text(FieldDescription)
	rec.Vendor = text(FieldVendor)
	rec.Unit = text(FieldUnit)
	rec.HSCode = CleanText(text(FieldHSCode))
	rec.Incoterm = strings.ToUpper(text(FieldIncoterm))
	rec.PackageType = text(FieldPackageType)

	qtyMapping, hasQty := mapping.Fields[FieldQuantity]
	raw := ""
	if hasQty {
		raw = cell(row, qtyMapping.ColumnIndex)
	}
	q, invalid := ParseQuantity(raw, rec.Unit, hasQty)
	if invalid {
		result.Warnings++
		result.addError(apperror.NewUnparseableNumber(qtyMapping.ColumnName, raw, rowNo))
	}
	rec.Quantity = q

	for _, dim := range []Field{FieldLength, FieldWidth, FieldHeight, FieldGrossWeight} {
		fm, ok := mapping.Fields[dim]
		if !ok {
			continue
		}
		raw := cell(row, fm.ColumnIndex)
		v, invalid := ParseDimension(raw, fm.Centimeter && dim != FieldGrossWeight)
		if invalid {
			result.Warnings++
			result.addError(apperror.NewUnparseableNumber(fm.ColumnName, raw, rowNo))
		}
		switch dim {
		case FieldLength:
			rec.Length = v
		case FieldWidth:
			rec.Width = v
		case FieldHeight:
			rec.Height = v
		case FieldGrossWeight:
			rec.GrossWeight = v
		}
	}
	rec.DeriveMeasures()

	rec.Locations = make([]model.LocationStamp, 0, len(p.warehouses)+len(p.sites))
	for _, loc := range p.warehouses {
		rec.Locations = append(rec.Locations, p.stamp(row, rowNo, loc, mapping, result))
	}
	for _, loc := range p.sites {
		rec.Locations = append(rec.Locations, p.stamp(row, rowNo, loc, mapping, result))
	}
	return rec, true
}

func (p *MovementParser) stamp(row []string, rowNo int, loc string, mapping ColumnMapping, result *ParseResult) model.LocationStamp {
	s := model.LocationStamp{Location: loc}
	fm, ok := mapping.Locations[loc]
	if !ok {
		return s
	}
	raw := strings.TrimSpace(cell(row, fm.ColumnIndex))
	if raw == "" {
		return s
	}
	at, ok := ParseDate(raw)
	if !ok {
		result.Warnings++
		result.addError(apperror.NewUnparseableDate(fm.ColumnName, raw, rowNo))
		return s
	}
	s.At = at
	return s
}
