// Package progression computes the next session's prescribed loads, reps,
// and set counts for one exercise slot. It is the central state-transition
// function of the coach: prescription rules plus the most recent performance
// plus readiness directives in, a fully loadable plan out.
package progression

import (
	"fmt"

	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/loading"
	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/readiness"
	"github.com/claude/liftcoach/internal/strength"
)

// Input carries everything one transition needs. Last is the most recent
// session for the exercise, nil on first exposure. StartWeight is a
// caller-supplied starting load hint for first exposures; when zero a
// conservative default is derived from the inventory.
type Input struct {
	Exercise     models.Exercise
	Prescription models.Prescription
	Last         *models.SessionRecord
	Directives   readiness.Directives
	Inventory    loading.Inventory
	StartWeight  float64
	Stall        *models.StallVerdict
}

// Next computes the next session's plan for one exercise. Every weight in the
// result has been rounded to a loadable value; the engine never emits an
// unloadable number.
func Next(in Input) models.ExercisePlan {
	switch in.Prescription.ProgressionType {
	case models.ProgressionDoubleProgression:
		return nextDoubleProgression(in)
	case models.ProgressionStraightSets:
		return nextStraightSets(in)
	default:
		return nextTopSetBackoff(in)
	}
}

// nextTopSetBackoff progresses the top set, then derives backoff volume from
// it at the prescribed load drop.
func nextTopSetBackoff(in Input) models.ExercisePlan {
	p := in.Prescription
	dumbbell := usesDumbbell(in.Exercise)
	effCap := in.Directives.EffectiveRPECap(p.RPECap)

	plan := models.ExercisePlan{ExerciseName: in.Exercise.Name, Adjustment: in.Directives.Note}

	top, ok := topSet(in.Last)
	if !ok {
		return firstExposure(in, p.TopRepsMin, setCount(1, in.Directives))
	}

	topWeight := in.Inventory.Nearest(top.WeightKg, dumbbell)
	topReps := top.Reps
	lastRPE := p.RPECap
	if top.RPE != nil {
		lastRPE = *top.RPE
	}

	switch {
	case top.Reps >= p.TopRepsMax && lastRPE <= effCap:
		// Top of the rep range within the cap: add load, reset reps.
		topWeight = in.Inventory.StepUp(topWeight, catalog.EquipmentIncrement(in.Exercise), dumbbell)
		topReps = p.TopRepsMin
		plan.Reasoning = fmt.Sprintf("hit %d reps at RPE %.1f: load up, reps reset to %d", top.Reps, lastRPE, p.TopRepsMin)
	case top.Reps >= p.TopRepsMin && top.Reps < p.TopRepsMax && lastRPE < effCap:
		// Inside the range with headroom: chase one more rep.
		topReps = top.Reps + 1
		plan.Reasoning = fmt.Sprintf("same weight, target %d reps (had %d at RPE %.1f)", topReps, top.Reps, lastRPE)
	default:
		// Missed reps or at the cap: repeat and emphasize form.
		if topReps < p.TopRepsMin {
			topReps = p.TopRepsMin
		}
		plan.Reasoning = "repeat last top set; focus on bar speed and form"
	}

	plan.TopSet = &models.PlannedSet{
		WeightKg: topWeight,
		Reps:     topReps,
		RPECap:   effCap,
		SetCount: 1,
	}

	backoffCount := setCount(p.BackoffSets, in.Directives)
	if backoffCount > 0 && p.BackoffSets > 0 {
		backoffWeight := in.Inventory.Nearest(topWeight*(1-p.BackoffLoadDropPercent), dumbbell)
		plan.BackoffSets = &models.PlannedSet{
			WeightKg: backoffWeight,
			Reps:     p.BackoffRepsMin,
			RepsMax:  p.BackoffRepsMax,
			RPECap:   effCap,
			SetCount: backoffCount,
		}
	}
	return plan
}

// nextDoubleProgression adds reps within the range across all working sets,
// then adds weight once every set reaches the top of the range.
func nextDoubleProgression(in Input) models.ExercisePlan {
	p := in.Prescription
	dumbbell := usesDumbbell(in.Exercise)
	effCap := in.Directives.EffectiveRPECap(p.RPECap)

	plan := models.ExercisePlan{ExerciseName: in.Exercise.Name, Adjustment: in.Directives.Note}
	count := setCount(p.WorkingSets, in.Directives)

	working := completedSets(in.Last)
	if len(working) == 0 {
		return firstExposure(in, p.TopRepsMin, count)
	}

	weight := in.Inventory.Nearest(maxWeight(working), dumbbell)
	allTopped := true
	for _, s := range working {
		if s.Reps < p.TopRepsMax || (s.RPE != nil && *s.RPE > effCap) {
			allTopped = false
			break
		}
	}

	reps := p.TopRepsMin
	if allTopped {
		weight = in.Inventory.StepUp(weight, catalog.EquipmentIncrement(in.Exercise), dumbbell)
		plan.Reasoning = fmt.Sprintf("all sets reached %d reps: load up, reps reset to %d", p.TopRepsMax, p.TopRepsMin)
	} else {
		reps = lowestReps(working)
		if reps < p.TopRepsMin {
			reps = p.TopRepsMin
		}
		plan.Reasoning = fmt.Sprintf("hold weight, add reps toward %d on lagging sets", p.TopRepsMax)
	}

	plan.WorkingSets = &models.PlannedSet{
		WeightKg: weight,
		Reps:     reps,
		RepsMax:  p.TopRepsMax,
		RPECap:   effCap,
		SetCount: count,
	}
	return plan
}

// nextStraightSets carries the last session forward verbatim unless a stall
// verdict indicates a fix.
func nextStraightSets(in Input) models.ExercisePlan {
	p := in.Prescription
	dumbbell := usesDumbbell(in.Exercise)
	effCap := in.Directives.EffectiveRPECap(p.RPECap)

	plan := models.ExercisePlan{ExerciseName: in.Exercise.Name, Adjustment: in.Directives.Note}
	count := setCount(p.WorkingSets, in.Directives)

	top, ok := topSet(in.Last)
	if !ok {
		return firstExposure(in, p.TopRepsMin, count)
	}

	weight := in.Inventory.Nearest(top.WeightKg, dumbbell)
	reps := top.Reps
	if reps < p.TopRepsMin {
		reps = p.TopRepsMin
	}
	plan.Reasoning = "straight sets carried forward"

	if in.Stall != nil && in.Stall.IsStalled {
		weight, reps = applyStallFix(in, weight, reps, dumbbell, &plan)
	}

	plan.WorkingSets = &models.PlannedSet{
		WeightKg: weight,
		Reps:     reps,
		RPECap:   effCap,
		SetCount: count,
	}
	return plan
}

// applyStallFix adjusts a straight-sets carryover according to the verdict's
// fix taxonomy.
func applyStallFix(in Input, weight float64, reps int, dumbbell bool, plan *models.ExercisePlan) (float64, int) {
	switch in.Stall.FixType {
	case models.FixDeload:
		weight = in.Inventory.Nearest(weight*0.92, dumbbell)
		plan.Reasoning = "deload week: load reduced ~8%"
	case models.FixRepRangeChange:
		weight = in.Inventory.Nearest(weight*0.85, dumbbell)
		reps = 6
		plan.Reasoning = "rep range shifted to 6-8 at ~85% load"
	case models.FixWeightJump:
		weight = in.Inventory.StepUp(weight, 2*catalog.EquipmentIncrement(in.Exercise), dumbbell)
		plan.Reasoning = "forced weight jump; reps may regress"
	case models.FixVariationSwap:
		plan.Reasoning = "stalled: consider the suggested variation swap"
	}
	return weight, reps
}

// firstExposure emits a conservative starting prescription: bottom of the rep
// range at the caller-supplied or inventory-derived starting load.
func firstExposure(in Input, reps, count int) models.ExercisePlan {
	dumbbell := usesDumbbell(in.Exercise)
	start := in.StartWeight
	if start <= 0 {
		if dumbbell {
			start = loading.NearestDumbbell(10, in.Inventory.Dumbbells)
		} else {
			start = in.Inventory.BarWeight
		}
	}
	weight := in.Inventory.Nearest(start, dumbbell)
	if weight < 0 {
		weight = 0
	}
	if count < 1 {
		count = 1
	}

	effCap := in.Directives.EffectiveRPECap(in.Prescription.RPECap)
	plan := models.ExercisePlan{
		ExerciseName: in.Exercise.Name,
		Adjustment:   in.Directives.Note,
		Reasoning:    "first exposure: conservative start at the bottom of the rep range",
	}
	set := &models.PlannedSet{WeightKg: weight, Reps: reps, RPECap: effCap, SetCount: count}
	switch in.Prescription.ProgressionType {
	case models.ProgressionTopSetBackoff:
		plan.TopSet = set
	default:
		plan.WorkingSets = set
	}
	return plan
}

// setCount applies the readiness delta with a floor of one set.
func setCount(prescribed int, d readiness.Directives) int {
	n := prescribed + d.SetCountDelta
	if n < 1 {
		n = 1
	}
	return n
}

func usesDumbbell(ex models.Exercise) bool {
	return models.NewEquipmentSet(ex.EquipmentRequired...).Has(models.EquipDumbbell)
}

// topSet returns the completed set with the highest e1RM, false when the
// session is nil or has no completed sets (treated as no history).
func topSet(s *models.SessionRecord) (models.PerformedSet, bool) {
	if s == nil {
		return models.PerformedSet{}, false
	}
	var best models.PerformedSet
	bestE := 0.0
	found := false
	for _, set := range s.Sets {
		if !set.IsCompleted || set.WeightKg <= 0 || set.Reps <= 0 {
			continue
		}
		if e := strength.Estimate1RM(set.WeightKg, set.Reps); e > bestE {
			best, bestE, found = set, e, true
		}
	}
	return best, found
}

func completedSets(s *models.SessionRecord) []models.PerformedSet {
	if s == nil {
		return nil
	}
	var out []models.PerformedSet
	for _, set := range s.Sets {
		if set.IsCompleted && set.WeightKg > 0 && set.Reps > 0 {
			out = append(out, set)
		}
	}
	return out
}

func maxWeight(sets []models.PerformedSet) float64 {
	m := 0.0
	for _, s := range sets {
		if s.WeightKg > m {
			m = s.WeightKg
		}
	}
	return m
}

func lowestReps(sets []models.PerformedSet) int {
	low := sets[0].Reps
	for _, s := range sets[1:] {
		if s.Reps < low {
			low = s.Reps
		}
	}
	return low
}
