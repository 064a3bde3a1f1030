package loading

import (
	"math"
	"reflect"
	"testing"
)

// standardPlates is a normal kg plate inventory, identical pairs per denomination.
var standardPlates = []float64{25, 20, 15, 10, 5, 2.5, 1.25}

// TestPlatesPerSide_Standard verifies greedy decomposition against
// hand-loadable bars.
func TestPlatesPerSide_Standard(t *testing.T) {
	cases := []struct {
		target float64
		bar    float64
		want   []float64
	}{
		{60, 20, []float64{20}},
		{100, 20, []float64{25, 15}},
		{142.5, 20, []float64{25, 25, 10, 1.25}},
		{22.5, 20, []float64{1.25}},
		{25, 20, []float64{2.5}},
	}
	for _, tc := range cases {
		got := PlatesPerSide(tc.target, tc.bar, standardPlates)
		if !got.Feasible {
			t.Errorf("PlatesPerSide(%v, %v): unexpectedly infeasible", tc.target, tc.bar)
			continue
		}
		if !reflect.DeepEqual(got.PlatesPerSide, tc.want) {
			t.Errorf("PlatesPerSide(%v, %v) = %v, want %v", tc.target, tc.bar, got.PlatesPerSide, tc.want)
		}
	}
}

// TestPlatesPerSide_Infeasible verifies that odd per-side residuals are
// reported as infeasible rather than silently rounded.
func TestPlatesPerSide_Infeasible(t *testing.T) {
	// 21kg total on a 20kg bar means 0.5kg per side; no denomination covers it.
	if got := PlatesPerSide(21, 20, standardPlates); got.Feasible {
		t.Errorf("PlatesPerSide(21, 20) = %v, want infeasible", got)
	}
	// Without 1.25s, a 2.5kg total increment (1.25/side) is unreachable.
	noSmall := []float64{25, 20, 15, 10, 5, 2.5}
	if got := PlatesPerSide(62.5, 20, noSmall); got.Feasible {
		t.Errorf("PlatesPerSide(62.5, 20) without 1.25s = %v, want infeasible", got)
	}
	if got := PlatesPerSide(62.5, 20, standardPlates); !got.Feasible {
		t.Error("PlatesPerSide(62.5, 20) with 1.25s should be feasible")
	}
}

// TestPlatesPerSide_BarOnly verifies the empty-bar and below-bar edges.
func TestPlatesPerSide_BarOnly(t *testing.T) {
	got := PlatesPerSide(20, 20, standardPlates)
	if !got.Feasible || len(got.PlatesPerSide) != 0 {
		t.Errorf("PlatesPerSide(20, 20) = %v, want feasible empty load", got)
	}
	if got := PlatesPerSide(15, 20, standardPlates); got.Feasible {
		t.Errorf("PlatesPerSide(15, 20) = %v, want infeasible (below bar)", got)
	}
}

// TestNearestLoadable verifies rounding to the smallest loadable step and the
// never-below-bar floor.
func TestNearestLoadable(t *testing.T) {
	cases := []struct {
		weight float64
		bar    float64
		plates []float64
		want   float64
	}{
		{61.3, 20, standardPlates, 62.5},
		{61.0, 20, standardPlates, 60},
		{18, 20, standardPlates, 20},
		{20, 20, standardPlates, 20},
		// Coarse inventory: 5kg smallest plate means 10kg steps.
		{63, 20, []float64{20, 10, 5}, 60},
		{66, 20, []float64{20, 10, 5}, 70},
	}
	for _, tc := range cases {
		got := NearestLoadable(tc.weight, tc.bar, tc.plates)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NearestLoadable(%v, %v, %v) = %v, want %v", tc.weight, tc.bar, tc.plates, got, tc.want)
		}
	}
}

// TestWarmupLadder verifies the ascending ladder shape for a heavy top set:
// empty bar first, then rounded 40/60/80% rungs strictly below the top set.
func TestWarmupLadder(t *testing.T) {
	ladder := WarmupLadder(100, 20, standardPlates)
	if len(ladder) != 4 {
		t.Fatalf("WarmupLadder(100): got %d rungs (%v), want 4", len(ladder), ladder)
	}
	wantWeights := []float64{20, 40, 60, 80}
	for i, w := range wantWeights {
		if math.Abs(ladder[i].WeightKg-w) > 1e-9 {
			t.Errorf("rung %d = %v, want %v", i, ladder[i].WeightKg, w)
		}
	}
	for i := 1; i < len(ladder); i++ {
		if ladder[i].WeightKg <= ladder[i-1].WeightKg {
			t.Errorf("ladder not strictly ascending: %v", ladder)
		}
	}
}

// TestWarmupLadder_LightTopSet verifies that light top sets skip the empty-bar
// rung and drop rungs that would collide with the top set.
func TestWarmupLadder_LightTopSet(t *testing.T) {
	// 2x bar threshold: 40 is not > 40, so no empty-bar rung.
	ladder := WarmupLadder(40, 20, standardPlates)
	for _, rung := range ladder {
		if rung.WeightKg >= 40 {
			t.Errorf("rung %v not strictly below top set", rung.WeightKg)
		}
	}
	if len(ladder) == 0 {
		t.Error("expected at least one rung below a 40kg top set")
	}
}

// TestWarmupLadder_Deduplicates verifies rungs that round to the same weight
// are emitted once.
func TestWarmupLadder_Deduplicates(t *testing.T) {
	// Coarse plates force 40% and 60% of 50kg onto the same loadable value.
	ladder := WarmupLadder(50, 20, []float64{10})
	seen := map[float64]bool{}
	for _, rung := range ladder {
		if seen[rung.WeightKg] {
			t.Errorf("duplicate rung %v in %v", rung.WeightKg, ladder)
		}
		seen[rung.WeightKg] = true
	}
}

// TestNearestDumbbell verifies minimal-absolute-difference picking with
// lighter-increment tie-breaks.
func TestNearestDumbbell(t *testing.T) {
	rack := []float64{2.5, 5, 7.5, 10, 12.5, 15, 17.5, 20, 22.5, 25, 30}
	cases := []struct {
		target float64
		want   float64
	}{
		{11, 10},
		{11.5, 12.5},
		{26, 25},
		{100, 30},
		{1, 2.5},
		{11.25, 10}, // exact tie resolves down
	}
	for _, tc := range cases {
		if got := NearestDumbbell(tc.target, rack); got != tc.want {
			t.Errorf("NearestDumbbell(%v) = %v, want %v", tc.target, got, tc.want)
		}
	}
	if got := NearestDumbbell(10, nil); got != 0 {
		t.Errorf("NearestDumbbell with empty rack = %v, want 0", got)
	}
}

// TestDumbbellAdjacency verifies up/down stepping and rack-edge clamping.
func TestDumbbellAdjacency(t *testing.T) {
	rack := []float64{5, 10, 15, 20}
	if got := NextDumbbellUp(10, rack); got != 15 {
		t.Errorf("NextDumbbellUp(10) = %v, want 15", got)
	}
	if got := NextDumbbellUp(20, rack); got != 20 {
		t.Errorf("NextDumbbellUp(20) = %v, want 20 (top of rack)", got)
	}
	if got := NextDumbbellDown(10, rack); got != 5 {
		t.Errorf("NextDumbbellDown(10) = %v, want 5", got)
	}
	if got := NextDumbbellDown(5, rack); got != 5 {
		t.Errorf("NextDumbbellDown(5) = %v, want 5 (bottom of rack)", got)
	}
	// A weight between increments still steps to the adjacent ones.
	if got := NextDumbbellUp(12, rack); got != 15 {
		t.Errorf("NextDumbbellUp(12) = %v, want 15", got)
	}
	if got := NextDumbbellDown(12, rack); got != 10 {
		t.Errorf("NextDumbbellDown(12) = %v, want 10", got)
	}
}
