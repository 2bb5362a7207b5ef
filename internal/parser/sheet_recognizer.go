package parser

import (
	"fmt"
)

// SheetRecognizer 工作表识别器：定位表头行，必要时自动选择工作表
type SheetRecognizer struct {
	resolver *ColumnResolver
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer(resolver *ColumnResolver) *SheetRecognizer {
	return &SheetRecognizer{resolver: resolver}
}

// DetectHeader 在前 HeaderScanRows 行中找到第一行能识别出箱号列的表头
func (r *SheetRecognizer) DetectHeader(sheetName string, rows [][]string) SheetRecognitionResult {
	res := SheetRecognitionResult{SheetName: sheetName}
	limit := len(rows)
	if limit > HeaderScanRows {
		limit = HeaderScanRows
	}
	for i := 0; i < limit; i++ {
		mapping := r.resolver.Resolve(rows[i])
		if !mapping.Has(FieldCaseNo) {
			continue
		}
		res.HeaderRow = i + 1
		res.Headers = rows[i]
		res.Mapping = mapping
		return res
	}
	return res
}

// Recognize 识别工作表：优先使用配置的工作表；不存在时取第一个能识别出表头的工作表
func (r *SheetRecognizer) Recognize(sheets []string, preferred string, read func(string) ([][]string, error)) (SheetRecognitionResult, [][]string, error) {
	if preferred != "" {
		for _, name := range sheets {
			if name != preferred {
				continue
			}
			rows, err := read(name)
			if err != nil {
				return SheetRecognitionResult{SheetName: name}, nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
			}
			return r.DetectHeader(name, rows), rows, nil
		}
	}

	for _, name := range sheets {
		rows, err := read(name)
		if err != nil {
			continue
		}
		res := r.DetectHeader(name, rows)
		if res.Found() {
			res.AutoDetected = preferred != ""
			return res, rows, nil
		}
	}
	return SheetRecognitionResult{SheetName: preferred}, nil, nil
}
