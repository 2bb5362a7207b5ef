package calculator

import (
	"stockrecon/internal/model"
)

// TrackCase 遍历单箱的原始移动序列，合成入库/出库/现场入场事件并给出终态
//
// 出库事件只在“上一个位置是仓库”时合成，日期记为现场交付所在月份。
// 空序列返回 ok=false。
func TrackCase(moves []model.RawMovement) (events []model.Event, state model.CaseState, ok bool) {
	if len(moves) == 0 {
		return nil, model.CaseState{}, false
	}

	var (
		prevLocation string
		prevKind     model.LocationKind
	)

	events = make([]model.Event, 0, len(moves)+1)
	for _, mv := range moves {
		month := mv.Month()

		switch mv.Kind {
		case model.MovementWarehouseIn:
			events = append(events, model.Event{
				CaseID:   mv.CaseID,
				At:       mv.At,
				Month:    month,
				Location: mv.Location,
				Kind:     model.EventWarehouseArrival,
			})
			prevLocation, prevKind = mv.Location, model.LocationWarehouse

		case model.MovementSiteOut:
			if prevKind == model.LocationWarehouse {
				events = append(events, model.Event{
					CaseID:   mv.CaseID,
					At:       mv.At,
					Month:    month,
					Location: prevLocation,
					Kind:     model.EventWarehouseDeparture,
				})
			}
			events = append(events, model.Event{
				CaseID:   mv.CaseID,
				At:       mv.At,
				Month:    month,
				Location: mv.Location,
				Kind:     model.EventSiteDelivery,
			})
			prevLocation, prevKind = mv.Location, model.LocationSite
		}
	}

	last := moves[len(moves)-1]
	state = model.CaseState{
		CaseID:   last.CaseID,
		Location: last.Location,
		Kind:     last.Kind.LocationKind(),
		AsOf:     last.Month(),
		At:       last.At,
	}
	return events, state, true
}

// CaseTimeline 单箱的完整推导结果
type CaseTimeline struct {
	Record    *model.CaseRecord
	Movements []model.RawMovement
	Events    []model.Event
	State     model.CaseState
}

// BuildTimelines 为一个供应商的全部记录推导时间线；没有任何日期的记录被跳过
func BuildTimelines(records []model.CaseRecord, warehouses, sites []string) (timelines []CaseTimeline, skipped int) {
	timelines = make([]CaseTimeline, 0, len(records))
	for i := range records {
		rec := &records[i]
		moves := ExtractMovements(rec, warehouses, sites)
		events, state, ok := TrackCase(moves)
		if !ok {
			skipped++
			continue
		}
		timelines = append(timelines, CaseTimeline{
			Record:    rec,
			Movements: moves,
			Events:    events,
			State:     state,
		})
	}
	return timelines, skipped
}
