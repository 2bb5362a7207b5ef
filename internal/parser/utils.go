package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	hundred      = decimal.NewFromInt(100)
)

// dateLayouts 文本日期支持的格式，按顺序尝试
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2-Jan-2006",
	"02-Jan-06",
}

// Excel 序列日期的有效范围（1900-01-01 ~ 9999-12-31）
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// eachUnits 按件计数的单位
var eachUnits = map[string]bool{
	"EA":   true,
	"EA.":  true,
	"EACH": true,
	"PC":   true,
	"PCS":  true,
}

// NormalizeColumnName 规范化列名：去首尾空白、转小写、压缩连续空白
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(name)
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsCentimeterHeader 表头是否以厘米为单位
func IsCentimeterHeader(header string) bool {
	return strings.Contains(NormalizeColumnName(header), "(cm)")
}

// CleanText 去掉首尾空白；浮点形式的整数箱号（如 "1001.0"）还原为整数
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.ParseInt(strings.TrimSuffix(s, ".0"), 10, 64); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}

// ParseDate 解析日期单元格：Excel 序列值或文本日期。ok=false 表示无法识别
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < minExcelSerial || f > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDecimal 解析数值单元格，容忍千分位与首尾空白。空串返回 ok=false
func ParseDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsEachUnit 单位是否为按件计数
func IsEachUnit(unit string) bool {
	return eachUnits[strings.ToUpper(strings.TrimSpace(unit))]
}

// ParseQuantity 数量规则：
//   - 无数量列：1
//   - 空值或无法解析：单位按件计数时为 1，否则为 0
//   - 负数按 0
//
// 第二个返回值表示原值无法解析（非空但不是数字）。
func ParseQuantity(raw, unit string, hasColumn bool) (decimal.Decimal, bool) {
	if !hasColumn {
		return decimal.NewFromInt(1), false
	}
	d, ok := ParseDecimal(raw)
	if !ok {
		invalid := strings.TrimSpace(raw) != ""
		if IsEachUnit(unit) {
			return decimal.NewFromInt(1), invalid
		}
		return decimal.Zero, invalid
	}
	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d, false
}

// ParseDimension 尺寸：厘米列换算为米；缺失或无法解析为 0
func ParseDimension(raw string, centimeter bool) (decimal.Decimal, bool) {
	d, ok := ParseDecimal(raw)
	if !ok {
		return decimal.Zero, strings.TrimSpace(raw) != ""
	}
	if centimeter {
		d = d.Div(hundred)
	}
	return d, false
}

// cell 安全取单元格
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// isBlankRow 整行为空
func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
