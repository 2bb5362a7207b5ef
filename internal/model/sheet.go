package model

// ColumnKind 列的值类型（决定导出格式）
type ColumnKind string

const (
	ColumnText     ColumnKind = "text"
	ColumnCount    ColumnKind = "count"    // 箱数
	ColumnQuantity ColumnKind = "quantity" // 数量（可含小数）
	ColumnDate     ColumnKind = "date"
)

// Column 表头定义
type Column struct {
	Header string     `json:"header"`
	Kind   ColumnKind `json:"kind"`
}

// Table 交给报表渲染器的结果表
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
	// TotalRow TOTAL 行下标，-1 表示没有
	TotalRow int `json:"totalRow"`
}

// Empty 没有数据行的表不输出
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Headers 表头文本
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

// SheetInfo 工作表信息
type SheetInfo struct {
	Name     string `json:"name"`
	RowCount int    `json:"rowCount"`
}
