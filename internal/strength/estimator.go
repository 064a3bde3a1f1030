// Package strength converts (weight, reps) pairs to estimated one-rep maxes
// and back. e1RM is the shared currency for comparing effort across rep ranges.
package strength

import "math"

// brzyckiMaxReps is the rep count at which the Brzycki denominator reaches 1.
const brzyckiMaxReps = 36

// Estimate1RM returns the Epley estimate of a single-rep maximum:
// weight * (1 + reps/30). For reps=1 it returns the weight unchanged.
// Returns 0 for reps <= 0 or weight <= 0; never panics.
func Estimate1RM(weightKg float64, reps int) float64 {
	if reps <= 0 || weightKg <= 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	return weightKg * (1 + float64(reps)/30)
}

// Estimate1RMBrzycki returns the Brzycki estimate: weight * 36/(37 - reps).
// Valid for reps 1-36; reps beyond that are capped at 36. Not to be compared
// against Epley estimates within the same decision.
func Estimate1RMBrzycki(weightKg float64, reps int) float64 {
	if reps <= 0 || weightKg <= 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	if reps > brzyckiMaxReps {
		reps = brzyckiMaxReps
	}
	return weightKg * 36 / float64(37-reps)
}

// WeightForReps inverts the Epley formula: the load at which the given rep
// count would produce the given e1RM. Returns 0 on non-positive input.
func WeightForReps(e1RM float64, reps int) float64 {
	if reps <= 0 || e1RM <= 0 {
		return 0
	}
	if reps == 1 {
		return e1RM
	}
	return e1RM / (1 + float64(reps)/30)
}

// RepsAtPercentage inverts Epley the other way: the rep count at which a set
// at pct (0-100) of max reaches the lifter's e1RM. Returns 1 for pct >= 100
// and 0 for pct <= 0.
func RepsAtPercentage(pct float64) int {
	if pct <= 0 {
		return 0
	}
	if pct >= 100 {
		return 1
	}
	// pct/100 = 1/(1 + r/30)  =>  r = 30*(100/pct - 1)
	reps := 30 * (100/pct - 1)
	r := int(math.Round(reps))
	if r < 1 {
		r = 1
	}
	return r
}
