package calculator

import (
	"sort"

	"stockrecon/internal/model"
)

// ExtractMovements 将一行记录的位置日期整理为按时间排序的原始移动序列
//
// 仓库列按配置顺序在前，现场列在后；同一时刻的多个位置保持该顺序（稳定排序）。
// 不在两类配置中的位置被忽略；没有任何日期时返回空序列。
func ExtractMovements(rec *model.CaseRecord, warehouses, sites []string) []model.RawMovement {
	if rec == nil {
		return nil
	}

	moves := make([]model.RawMovement, 0, len(warehouses)+len(sites))
	seen := make(map[string]bool, len(warehouses)+len(sites))

	collect := func(locations []string, kind model.MovementKind) {
		for _, loc := range locations {
			if seen[loc] {
				continue
			}
			seen[loc] = true

			at, ok := rec.Timestamp(loc)
			if !ok {
				continue
			}
			moves = append(moves, model.RawMovement{
				CaseID:   rec.CaseID,
				At:       at,
				Location: loc,
				Kind:     kind,
			})
		}
	}
	collect(warehouses, model.MovementWarehouseIn)
	collect(sites, model.MovementSiteOut)

	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].At.Before(moves[j].At)
	})
	return moves
}
