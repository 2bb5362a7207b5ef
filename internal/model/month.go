package model

import (
	"fmt"
	"strings"
	"time"
)

// MonthLayout 月份格式
const MonthLayout = "2006-01"

// Month 报表月份（YYYY-MM），字典序与时间序一致
type Month string

// MonthOf 取时间所在月份
func MonthOf(t time.Time) Month {
	return Month(t.Format(MonthLayout))
}

// ParseMonth 解析 YYYY-MM
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// String 实现 fmt.Stringer
func (m Month) String() string {
	return string(m)
}

// After 是否晚于 other
func (m Month) After(other Month) bool {
	return m > other
}

// NotAfter 是否不晚于 other（空 other 视为无上限）
func (m Month) NotAfter(other Month) bool {
	if other == "" {
		return true
	}
	return m <= other
}
