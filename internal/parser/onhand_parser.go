package parser

import (
	"time"

	"stockrecon/internal/apperror"
	"stockrecon/internal/model"
)

// OnHandParser 现存量快照解析器
type OnHandParser struct {
	recognizer *SheetRecognizer
}

// NewOnHandParser 创建现存量解析器
func NewOnHandParser(aliases map[string][]string) *OnHandParser {
	return &OnHandParser{
		recognizer: NewSheetRecognizer(NewColumnResolver(aliases, nil)),
	}
}

// Recognizer 供导入器选择工作表
func (p *OnHandParser) Recognizer() *SheetRecognizer {
	return p.recognizer
}

// ParseRows 解析现存量数据行（箱号、数量）
func (p *OnHandParser) ParseRows(header SheetRecognitionResult, rows [][]string) ([]model.OnHandRecord, ParseResult) {
	start := time.Now()
	result := ParseResult{SheetName: header.SheetName, HeaderRow: header.HeaderRow}
	if !header.Found() {
		result.addError(apperror.NewMissingRequiredField(string(FieldCaseNo), 0))
		return nil, result
	}

	caseCol := header.Mapping.Fields[FieldCaseNo]
	qtyCol, hasQty := header.Mapping.Fields[FieldQuantity]
	unitCol, hasUnit := header.Mapping.Fields[FieldUnit]

	var records []model.OnHandRecord
	for i := header.HeaderRow; i < len(rows); i++ {
		row := rows[i]
		rowNo := i + 1
		if isBlankRow(row) {
			continue
		}

		id := CleanText(cell(row, caseCol.ColumnIndex))
		if id == "" {
			result.DroppedRows++
			result.addError(apperror.NewMissingRequiredField(string(FieldCaseNo), rowNo))
			continue
		}

		unit := ""
		if hasUnit {
			unit = cell(row, unitCol.ColumnIndex)
		}
		raw := ""
		if hasQty {
			raw = cell(row, qtyCol.ColumnIndex)
		}
		q, invalid := ParseQuantity(raw, unit, hasQty)
		if invalid {
			result.Warnings++
			result.addError(apperror.NewUnparseableNumber(qtyCol.ColumnName, raw, rowNo))
		}

		records = append(records, model.OnHandRecord{CaseID: id, Quantity: q, RowNumber: rowNo})
	}

	result.ImportedRows = len(records)
	result.Duration = time.Since(start)
	return records, result
}
