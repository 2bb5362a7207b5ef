package calculator

import (
	"testing"

	"stockrecon/internal/model"
)

func moves(stamps ...model.LocationStamp) []model.RawMovement {
	cfg := testConfig()
	rec := record("HE", "C", 1, stamps...)
	return ExtractMovements(&rec, cfg.WarehouseColumns("HE"), cfg.Sites())
}

func TestFlowMatrix_CountsWarehouseToSitePairs(t *testing.T) {
	t.Parallel()

	sequences := [][]model.RawMovement{
		moves(at("WH_A", "2025-01-01"), at("SITE_X", "2025-02-01")),
		moves(at("WH_A", "2025-01-03"), at("SITE_X", "2025-02-05")),
		moves(at("WH_B", "2025-01-03"), at("SITE_Y", "2025-03-05")),
		moves(at("WH_A", "2025-01-03"), at("WH_B", "2025-01-20")),
	}
	m := FlowMatrix(sequences, testConfig().IsExcluded)

	if got := m.Count("WH_A", "SITE_X"); got != 2 {
		t.Fatalf("WH_A->SITE_X want=2 got=%d", got)
	}
	if got := m.Count("WH_B", "SITE_Y"); got != 1 {
		t.Fatalf("WH_B->SITE_Y want=1 got=%d", got)
	}
	if got := m.Count("WH_A", "WH_B"); got != 0 {
		t.Fatalf("warehouse transfers are not flows, got %d", got)
	}
	if len(m.Origins) != 2 || m.Origins[0] != "WH_A" || m.Origins[1] != "WH_B" {
		t.Fatalf("origins want sorted [WH_A WH_B] got=%v", m.Origins)
	}
}

func TestFlowMatrix_OnlyAdjacentPairs(t *testing.T) {
	t.Parallel()

	m := FlowMatrix([][]model.RawMovement{
		moves(at("WH_A", "2025-01-01"), at("SITE_X", "2025-02-01"), at("SITE_Y", "2025-03-01")),
	}, nil)

	total := 0
	for _, o := range m.Origins {
		for _, d := range m.Destinations {
			total += m.Count(o, d)
		}
	}
	if total != 1 || m.Count("WH_A", "SITE_X") != 1 {
		t.Fatalf("want exactly one WH_A->SITE_X transition, got total=%d", total)
	}
}

func TestFlowMatrix_ExcludedWarehouseNeverOrigin(t *testing.T) {
	t.Parallel()

	m := FlowMatrix([][]model.RawMovement{
		moves(at("Shifting", "2025-01-01"), at("SITE_X", "2025-02-01")),
	}, testConfig().IsExcluded)

	if !m.Empty() {
		t.Fatalf("excluded origin must not produce flows, got %+v", m)
	}
	for _, o := range m.Origins {
		if o == "Shifting" {
			t.Fatalf("excluded warehouse listed as origin")
		}
	}
}
