package calculator

import (
	"sort"

	"stockrecon/internal/model"
)

// FlowMatrix 统计相邻移动对 (仓库, 现场) 的流向
//
// 排除仓库不作为起点；现场作为终点不受限制。
func FlowMatrix(sequences [][]model.RawMovement, excluded func(string) bool) model.FlowMatrix {
	counts := make(map[string]map[string]int)
	origins := make(map[string]struct{})
	destinations := make(map[string]struct{})

	for _, moves := range sequences {
		for i := 1; i < len(moves); i++ {
			prev, cur := moves[i-1], moves[i]
			if prev.Kind != model.MovementWarehouseIn || cur.Kind != model.MovementSiteOut {
				continue
			}
			if excluded != nil && excluded(prev.Location) {
				continue
			}
			if counts[prev.Location] == nil {
				counts[prev.Location] = make(map[string]int)
			}
			counts[prev.Location][cur.Location]++
			origins[prev.Location] = struct{}{}
			destinations[cur.Location] = struct{}{}
		}
	}

	return model.FlowMatrix{
		Origins:      sortedKeys(origins),
		Destinations: sortedKeys(destinations),
		Counts:       counts,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
