package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationStamp 位置列及其日期
type LocationStamp struct {
	Location string    `json:"location"`
	At       time.Time `json:"at"` // 零值表示该位置无记录
}

// Present 该位置是否有日期
func (s LocationStamp) Present() bool {
	return !s.At.IsZero()
}

// CaseRecord 规范化后的箱号记录（一行源数据）
type CaseRecord struct {
	Supplier    string          `json:"supplier"`
	CaseID      string          `json:"caseId"`
	Quantity    decimal.Decimal `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Vendor      string          `json:"vendor,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	HSCode      string          `json:"hsCode,omitempty"`
	Incoterm    string          `json:"incoterm,omitempty"`
	PackageType string          `json:"packageType,omitempty"`

	// 尺寸（米）与毛重（千克）
	Length      decimal.Decimal `json:"length"`
	Width       decimal.Decimal `json:"width"`
	Height      decimal.Decimal `json:"height"`
	GrossWeight decimal.Decimal `json:"grossWeight"`
	SQM         decimal.Decimal `json:"sqm"`
	CBM         decimal.Decimal `json:"cbm"`

	// Locations 按位置列的配置顺序排列：供应商仓库列在前，现场列在后
	Locations []LocationStamp `json:"locations"`

	RowNumber int `json:"rowNumber"` // 源表行号（1 起）
}

// Timestamp 查询某位置的日期
func (r *CaseRecord) Timestamp(location string) (time.Time, bool) {
	for _, s := range r.Locations {
		if s.Location == location {
			return s.At, s.Present()
		}
	}
	return time.Time{}, false
}

// DeriveMeasures 根据长宽高计算面积与体积，任一缺失则为 0
func (r *CaseRecord) DeriveMeasures() {
	r.SQM = r.Length.Mul(r.Width)
	r.CBM = r.SQM.Mul(r.Height)
}

// OnHandRecord 现存量快照中的一行
type OnHandRecord struct {
	CaseID    string          `json:"caseId"`
	Quantity  decimal.Decimal `json:"quantity"`
	RowNumber int             `json:"rowNumber"`
}

// Dataset 一次分析的全部输入
type Dataset struct {
	// Movements 供应商 -> 记录
	Movements map[string][]CaseRecord
	// OnHand 现存量快照；nil 表示未加载
	OnHand []OnHandRecord
}

// Empty 是否没有任何可用数据
func (d *Dataset) Empty() bool {
	if d == nil {
		return true
	}
	if len(d.OnHand) > 0 {
		return false
	}
	for _, records := range d.Movements {
		if len(records) > 0 {
			return false
		}
	}
	return true
}
