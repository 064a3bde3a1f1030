// Package loading rounds target weights to values physically achievable with
// the available plate and dumbbell inventory, decomposes barbell loads into
// per-side plate lists, and builds warmup ladders.
package loading

import (
	"math"
	"sort"
)

// residualTolerance is the slack allowed before a per-side decomposition is
// declared infeasible. Covers floating-point noise, nothing more.
const residualTolerance = 0.001

// Warmup ladder percentages of the top set, in ascending order.
var warmupPercents = []float64{0.40, 0.60, 0.80}

// warmupReps pairs each ladder percentage with a rep target. The empty-bar
// set uses emptyBarReps.
var warmupReps = []int{8, 5, 3}

const emptyBarReps = 10

// PlateLoad is the outcome of a per-side plate decomposition.
type PlateLoad struct {
	// PlatesPerSide lists plate denominations for one side, heaviest first.
	PlatesPerSide []float64
	// Feasible is false when the target cannot be reached exactly with the
	// available denominations.
	Feasible bool
}

// PlatesPerSide decomposes a target total weight into plates for one side of
// the bar, consuming the largest available denominations first. Plates load
// in identical pairs, so the per-side weight is (target - bar) / 2; odd total
// loads are infeasible unless a 1.25 plate exists to cover the 0.5-ish split.
//
// The greedy walk is deterministic and correct for standard monotonic
// denominations (25, 20, 15, 10, 5, 2.5, 1.25). It is not globally optimal
// for arbitrary plate sets; that is a documented limitation, not a bug.
func PlatesPerSide(targetWeight, barWeight float64, availablePlates []float64) PlateLoad {
	if targetWeight <= barWeight {
		return PlateLoad{Feasible: targetWeight == barWeight}
	}

	perSide := (targetWeight - barWeight) / 2

	denoms := append([]float64(nil), availablePlates...)
	sort.Sort(sort.Reverse(sort.Float64Slice(denoms)))

	var plates []float64
	remaining := perSide
	for _, d := range denoms {
		if d <= 0 {
			continue
		}
		for remaining >= d-residualTolerance {
			plates = append(plates, d)
			remaining -= d
		}
	}

	if remaining > residualTolerance {
		return PlateLoad{PlatesPerSide: plates, Feasible: false}
	}
	return PlateLoad{PlatesPerSide: plates, Feasible: true}
}

// NearestLoadable rounds a weight to the nearest multiple of twice the
// smallest available plate above the bar. The result never drops below the
// bar weight, since plates cannot subtract.
func NearestLoadable(weightKg, barWeight float64, availablePlates []float64) float64 {
	if weightKg <= barWeight {
		return barWeight
	}
	minPlate := smallestPlate(availablePlates)
	if minPlate <= 0 {
		return barWeight
	}
	step := 2 * minPlate
	steps := math.Round((weightKg - barWeight) / step)
	if steps < 0 {
		steps = 0
	}
	return barWeight + steps*step
}

// WarmupLadder builds the ascending warmup sequence for a top set: an
// empty-bar set when the top set is heavy enough to warrant one, then
// loadable weights near 40/60/80% of the top set. Rungs are de-duplicated
// and must stay strictly below the top set.
func WarmupLadder(topSetWeight, barWeight float64, availablePlates []float64) []Warmup {
	var ladder []Warmup
	if topSetWeight > 2*barWeight {
		ladder = append(ladder, Warmup{WeightKg: barWeight, Reps: emptyBarReps})
	}

	seen := map[float64]bool{barWeight: len(ladder) > 0}
	for i, pct := range warmupPercents {
		w := NearestLoadable(topSetWeight*pct, barWeight, availablePlates)
		if w >= topSetWeight || seen[w] {
			continue
		}
		seen[w] = true
		ladder = append(ladder, Warmup{WeightKg: w, Reps: warmupReps[i]})
	}

	sort.Slice(ladder, func(i, j int) bool { return ladder[i].WeightKg < ladder[j].WeightKg })
	return ladder
}

// Warmup is one rung of a warmup ladder.
type Warmup struct {
	WeightKg float64
	Reps     int
}

// NearestDumbbell picks the increment with the minimal absolute difference
// from the target. Ties resolve to the lighter increment. Returns 0 when the
// rack is empty.
func NearestDumbbell(weightKg float64, increments []float64) float64 {
	if len(increments) == 0 {
		return 0
	}
	sorted := sortedIncrements(increments)
	best := sorted[0]
	for _, inc := range sorted[1:] {
		if math.Abs(inc-weightKg) < math.Abs(best-weightKg) {
			best = inc
		}
	}
	return best
}

// NextDumbbellUp returns the lightest increment strictly above the current
// weight, or the current weight when already at the top of the rack.
func NextDumbbellUp(currentKg float64, increments []float64) float64 {
	for _, inc := range sortedIncrements(increments) {
		if inc > currentKg+residualTolerance {
			return inc
		}
	}
	return currentKg
}

// NextDumbbellDown returns the heaviest increment strictly below the current
// weight, or the current weight when already at the bottom.
func NextDumbbellDown(currentKg float64, increments []float64) float64 {
	sorted := sortedIncrements(increments)
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] < currentKg-residualTolerance {
			return sorted[i]
		}
	}
	return currentKg
}

func sortedIncrements(increments []float64) []float64 {
	out := append([]float64(nil), increments...)
	sort.Float64s(out)
	return out
}

func smallestPlate(plates []float64) float64 {
	min := 0.0
	for _, p := range plates {
		if p > 0 && (min == 0 || p < min) {
			min = p
		}
	}
	return min
}
