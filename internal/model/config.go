package model

// SupplierLayout 供应商的位置列布局
type SupplierLayout struct {
	Key              string   `json:"key"`
	WarehouseColumns []string `json:"warehouseColumns"`
}

// AnalysisConfig 分析配置（构造后只读，传入各组件）
type AnalysisConfig struct {
	TargetMonth         Month            `json:"targetMonth"` // 空表示不截止
	Suppliers           []SupplierLayout `json:"suppliers"`
	SiteColumns         []string         `json:"siteColumns"`
	ExcludedWarehouses  []string         `json:"excludedWarehouses"`
	IndoorWarehouses    []string         `json:"indoorWarehouses"`
	DangerousWarehouses []string         `json:"dangerousWarehouses"`
}

// SupplierKeys 按配置顺序返回供应商
func (c *AnalysisConfig) SupplierKeys() []string {
	keys := make([]string, 0, len(c.Suppliers))
	for _, s := range c.Suppliers {
		keys = append(keys, s.Key)
	}
	return keys
}

// WarehouseColumns 某供应商的仓库列（副本）
func (c *AnalysisConfig) WarehouseColumns(supplier string) []string {
	for _, s := range c.Suppliers {
		if s.Key == supplier {
			return append([]string(nil), s.WarehouseColumns...)
		}
	}
	return nil
}

// Sites 现场列（副本）
func (c *AnalysisConfig) Sites() []string {
	return append([]string(nil), c.SiteColumns...)
}

// LocationColumns 某供应商的全部位置列：仓库在前，现场在后
func (c *AnalysisConfig) LocationColumns(supplier string) []string {
	return append(c.WarehouseColumns(supplier), c.SiteColumns...)
}

// IsExcluded 是否为排除的仓库（如中转）
func (c *AnalysisConfig) IsExcluded(warehouse string) bool {
	return contains(c.ExcludedWarehouses, warehouse)
}

// StorageClassOf 仓库的仓储分类
func (c *AnalysisConfig) StorageClassOf(warehouse string) StorageClass {
	switch {
	case contains(c.DangerousWarehouses, warehouse):
		return StorageDangerous
	case contains(c.IndoorWarehouses, warehouse):
		return StorageIndoor
	default:
		return StorageOutdoor
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
