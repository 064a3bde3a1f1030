package loading

import "math"

// Inventory is the lifter's discrete loading equipment: bar weight, plate
// denominations (identical pairs), and the dumbbell rack's increments.
type Inventory struct {
	BarWeight float64   `json:"bar_weight" yaml:"bar_weight"`
	Plates    []float64 `json:"plates" yaml:"plates"`
	Dumbbells []float64 `json:"dumbbells" yaml:"dumbbells"`
}

// DefaultInventory is a standard commercial-gym setup.
func DefaultInventory() Inventory {
	return Inventory{
		BarWeight: 20,
		Plates:    []float64{25, 20, 15, 10, 5, 2.5, 1.25},
		Dumbbells: []float64{2.5, 5, 7.5, 10, 12.5, 15, 17.5, 20, 22.5, 25, 27.5, 30, 32.5, 35, 40},
	}
}

// Nearest rounds a target to the closest loadable value for the given
// modality. Every weight the progression engine emits passes through here.
func (inv Inventory) Nearest(weightKg float64, dumbbell bool) float64 {
	if dumbbell {
		return NearestDumbbell(weightKg, inv.Dumbbells)
	}
	return NearestLoadable(weightKg, inv.BarWeight, inv.Plates)
}

// StepUp returns the smallest loadable weight strictly above current after
// adding the increment. For dumbbells this is the next rack increment; at the
// top of the rack it returns current unchanged, and the caller holds.
func (inv Inventory) StepUp(currentKg, increment float64, dumbbell bool) float64 {
	if dumbbell {
		return NextDumbbellUp(currentKg, inv.Dumbbells)
	}
	minPlate := smallestPlate(inv.Plates)
	if minPlate <= 0 {
		return currentKg
	}
	step := 2 * minPlate
	target := currentKg + increment
	steps := math.Ceil((target - inv.BarWeight - residualTolerance) / step)
	w := inv.BarWeight + steps*step
	if w <= currentKg {
		w = currentKg + step
	}
	return w
}
