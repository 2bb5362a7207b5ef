package parser

// DefaultAliases 标准字段的默认别名（按优先级）
func DefaultAliases() map[Field][]string {
	return map[Field][]string{
		FieldCaseNo:      {"case no", "case_no", "case no.", "case number", "case_id", "carton id", "mr#", "sct ship no", "no.", "no"},
		FieldQuantity:    {"q'ty", "qty", "quantity", "received", "received qty", "received quantity"},
		FieldDescription: {"description", "desc", "item description", "product description"},
		FieldVendor:      {"vendor", "supplier", "supplier name", "vendor name"},
		FieldUnit:        {"unit", "uom", "unit of measure"},
		FieldLength:      {"l(cm)", "length", "l", "length(cm)", "l_cm"},
		FieldWidth:       {"w(cm)", "width", "w", "width(cm)", "w_cm"},
		FieldHeight:      {"h(cm)", "height", "h", "height(cm)", "h_cm"},
		FieldGrossWeight: {"g.w(kg)", "g.w", "gross weight", "weight", "kg"},
		FieldHSCode:      {"hs code", "hs_code", "tariff code", "tariff", "hs"},
		FieldIncoterm:    {"incoterm", "incoterms", "trade term", "delivery term"},
		FieldPackageType: {"pkg type", "package type", "packaging", "package"},
	}
}

// ColumnResolver 列名解析器：把源表头映射到标准字段与位置列
type ColumnResolver struct {
	aliases   map[Field][]string // 已规范化
	locations []string           // 配置中的位置名（原样）
}

// NewColumnResolver 创建解析器
//
// overrides 中出现的字段整体替换默认别名；locations 为需要识别的位置列（仓库 + 现场）。
func NewColumnResolver(overrides map[string][]string, locations []string) *ColumnResolver {
	merged := DefaultAliases()
	for name, list := range overrides {
		if len(list) == 0 {
			continue
		}
		merged[Field(NormalizeColumnName(name))] = list
	}

	r := &ColumnResolver{
		aliases:   make(map[Field][]string, len(merged)),
		locations: append([]string(nil), locations...),
	}
	for f, list := range merged {
		norm := make([]string, 0, len(list))
		for _, a := range list {
			if a = NormalizeColumnName(a); a != "" {
				norm = append(norm, a)
			}
		}
		r.aliases[f] = norm
	}
	return r
}

// Locations 需要识别的位置列
func (r *ColumnResolver) Locations() []string {
	return append([]string(nil), r.locations...)
}

// Resolve 映射表头
//
// 位置列优先认领（精确匹配配置名）；标准字段按别名顺序尝试，首个匹配的未认领列胜出。
func (r *ColumnResolver) Resolve(headers []string) ColumnMapping {
	m := ColumnMapping{
		Fields:    make(map[Field]FieldMapping),
		Locations: make(map[string]FieldMapping),
	}

	normalized := make([]string, len(headers))
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		n := NormalizeColumnName(h)
		normalized[i] = n
		if n == "" {
			continue
		}
		if _, ok := index[n]; !ok {
			index[n] = i
		}
	}

	claimed := make(map[int]bool)
	for _, loc := range r.locations {
		idx, ok := index[NormalizeColumnName(loc)]
		if !ok || claimed[idx] {
			continue
		}
		claimed[idx] = true
		m.Locations[loc] = FieldMapping{ColumnIndex: idx, ColumnName: headers[idx], Location: loc}
	}

	for _, f := range StandardFields {
		for _, alias := range r.aliases[f] {
			idx, ok := index[alias]
			if !ok || claimed[idx] {
				continue
			}
			claimed[idx] = true
			m.Fields[f] = FieldMapping{
				ColumnIndex: idx,
				ColumnName:  headers[idx],
				Field:       f,
				Centimeter:  IsCentimeterHeader(headers[idx]),
			}
			break
		}
	}
	return m
}
