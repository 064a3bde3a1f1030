package progression

import (
	"testing"
	"time"

	"github.com/claude/liftcoach/internal/loading"
	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/readiness"
)

var (
	barbellSquat = models.Exercise{
		Name:              "Barbell Squat",
		MovementPattern:   "squat",
		PrimaryMuscles:    []string{"quads", "glutes"},
		EquipmentRequired: []string{models.EquipBarbell, models.EquipRack},
		IsCompound:        true,
	}
	dumbbellRow = models.Exercise{
		Name:              "Dumbbell Row",
		MovementPattern:   "horizontal-pull",
		PrimaryMuscles:    []string{"back", "lats"},
		EquipmentRequired: []string{models.EquipDumbbell, models.EquipBench},
		IsCompound:        true,
	}
)

func topSetBackoffPrescription() models.Prescription {
	return models.Prescription{
		ProgressionType:        models.ProgressionTopSetBackoff,
		TopRepsMin:             4,
		TopRepsMax:             6,
		RPECap:                 8.5,
		BackoffSets:            3,
		BackoffRepsMin:         6,
		BackoffRepsMax:         8,
		BackoffLoadDropPercent: 0.10,
	}
}

func rpe(v float64) *float64 { return &v }

func lastSession(weight float64, reps int, setRPE *float64) *models.SessionRecord {
	return &models.SessionRecord{
		Date:         time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC),
		ExerciseName: "Barbell Squat",
		Sets: []models.PerformedSet{
			{WeightKg: weight, Reps: reps, RPE: setRPE, IsCompleted: true},
		},
	}
}

// TestTopSetBackoff_Progress verifies the load-up transition: top of the rep
// range under the cap means strictly more weight at the bottom of the range.
func TestTopSetBackoff_Progress(t *testing.T) {
	plan := Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Last:         lastSession(100, 6, rpe(8)),
		Inventory:    loading.DefaultInventory(),
	})

	if plan.TopSet == nil {
		t.Fatal("expected a top set")
	}
	if plan.TopSet.WeightKg <= 100 {
		t.Errorf("top set weight = %v, want strictly above 100", plan.TopSet.WeightKg)
	}
	if plan.TopSet.WeightKg != 102.5 {
		t.Errorf("top set weight = %v, want 102.5 (one compound barbell increment)", plan.TopSet.WeightKg)
	}
	if plan.TopSet.Reps != 4 {
		t.Errorf("top set reps = %d, want reset to 4", plan.TopSet.Reps)
	}
}

// TestTopSetBackoff_AddRep verifies the within-range transition: hold the
// weight and chase one more rep.
func TestTopSetBackoff_AddRep(t *testing.T) {
	plan := Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Last:         lastSession(100, 5, rpe(7.5)),
		Inventory:    loading.DefaultInventory(),
	})

	if plan.TopSet.WeightKg != 100 {
		t.Errorf("top set weight = %v, want held at 100", plan.TopSet.WeightKg)
	}
	if plan.TopSet.Reps != 6 {
		t.Errorf("top set reps = %d, want 6", plan.TopSet.Reps)
	}
}

// TestTopSetBackoff_Hold verifies the missed-reps transition: everything
// repeats with a form emphasis.
func TestTopSetBackoff_Hold(t *testing.T) {
	plan := Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Last:         lastSession(100, 5, rpe(9)), // at/above cap
		Inventory:    loading.DefaultInventory(),
	})

	if plan.TopSet.WeightKg != 100 || plan.TopSet.Reps != 5 {
		t.Errorf("top set = %v x %d, want held 100 x 5", plan.TopSet.WeightKg, plan.TopSet.Reps)
	}
	if plan.Reasoning == "" {
		t.Error("expected a form-emphasis reasoning string")
	}
}

// TestTopSetBackoff_BackoffDerivation verifies backoff weight, rep range, and
// count derive from the new top set.
func TestTopSetBackoff_BackoffDerivation(t *testing.T) {
	plan := Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Last:         lastSession(100, 6, rpe(8)),
		Inventory:    loading.DefaultInventory(),
	})

	if plan.BackoffSets == nil {
		t.Fatal("expected backoff sets")
	}
	// 102.5 * 0.9 = 92.25 -> nearest loadable 92.5.
	if plan.BackoffSets.WeightKg != 92.5 {
		t.Errorf("backoff weight = %v, want 92.5", plan.BackoffSets.WeightKg)
	}
	if plan.BackoffSets.Reps != 6 || plan.BackoffSets.RepsMax != 8 {
		t.Errorf("backoff reps = %d-%d, want 6-8", plan.BackoffSets.Reps, plan.BackoffSets.RepsMax)
	}
	if plan.BackoffSets.SetCount != 3 {
		t.Errorf("backoff count = %d, want 3", plan.BackoffSets.SetCount)
	}
}

// TestTopSetBackoff_ReadinessAdjustments verifies directive application: the
// reduced cap gates progression and trims a backoff set.
func TestTopSetBackoff_ReadinessAdjustments(t *testing.T) {
	reduce := readiness.Evaluate(models.Readiness{
		Energy: models.EnergyLow, Soreness: models.SorenessNone, TimeAvailableMinutes: 60,
	})
	plan := Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Last:         lastSession(100, 6, rpe(8)), // RPE 8 > reduced cap 7.5
		Directives:   reduce,
		Inventory:    loading.DefaultInventory(),
	})

	if plan.TopSet.WeightKg != 100 {
		t.Errorf("top set weight = %v, want held under reduced cap", plan.TopSet.WeightKg)
	}
	if plan.TopSet.RPECap != 7.5 {
		t.Errorf("top set RPE cap = %v, want 7.5", plan.TopSet.RPECap)
	}
	if plan.BackoffSets.SetCount != 2 {
		t.Errorf("backoff count = %d, want 2 (one set trimmed)", plan.BackoffSets.SetCount)
	}

	increase := readiness.Evaluate(models.Readiness{
		Energy: models.EnergyHigh, Soreness: models.SorenessNone, TimeAvailableMinutes: 90,
	})
	plan = Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Last:         lastSession(100, 6, rpe(8)),
		Directives:   increase,
		Inventory:    loading.DefaultInventory(),
	})
	if plan.BackoffSets.SetCount != 4 {
		t.Errorf("backoff count = %d, want 4 (one extra permitted)", plan.BackoffSets.SetCount)
	}
}

// TestTopSetBackoff_FirstExposure verifies the conservative start with no
// history.
func TestTopSetBackoff_FirstExposure(t *testing.T) {
	plan := Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Inventory:    loading.DefaultInventory(),
		StartWeight:  60,
	})

	if plan.TopSet == nil {
		t.Fatal("expected a top set")
	}
	if plan.TopSet.WeightKg != 60 {
		t.Errorf("start weight = %v, want 60", plan.TopSet.WeightKg)
	}
	if plan.TopSet.Reps != 4 {
		t.Errorf("start reps = %d, want bottom of range", plan.TopSet.Reps)
	}

	// Without a hint the bar is the floor; never negative.
	plan = Next(Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Inventory:    loading.DefaultInventory(),
	})
	if plan.TopSet.WeightKg < 0 || plan.TopSet.WeightKg != 20 {
		t.Errorf("default start weight = %v, want bar weight 20", plan.TopSet.WeightKg)
	}
}

// TestDoubleProgression_LoadUp verifies weight increases only once every
// working set tops the rep range.
func TestDoubleProgression_LoadUp(t *testing.T) {
	p := models.Prescription{
		ProgressionType: models.ProgressionDoubleProgression,
		TopRepsMin:      8,
		TopRepsMax:      12,
		RPECap:          9,
		WorkingSets:     3,
	}
	allTopped := &models.SessionRecord{
		ExerciseName: "Dumbbell Row",
		Sets: []models.PerformedSet{
			{WeightKg: 20, Reps: 12, RPE: rpe(8), IsCompleted: true},
			{WeightKg: 20, Reps: 12, RPE: rpe(8.5), IsCompleted: true},
			{WeightKg: 20, Reps: 12, RPE: rpe(9), IsCompleted: true},
		},
	}
	plan := Next(Input{
		Exercise:     dumbbellRow,
		Prescription: p,
		Last:         allTopped,
		Inventory:    loading.DefaultInventory(),
	})

	if plan.WorkingSets == nil {
		t.Fatal("expected working sets")
	}
	if plan.WorkingSets.WeightKg != 22.5 {
		t.Errorf("weight = %v, want next dumbbell 22.5", plan.WorkingSets.WeightKg)
	}
	if plan.WorkingSets.Reps != 8 {
		t.Errorf("reps = %d, want reset to 8", plan.WorkingSets.Reps)
	}
	if plan.WorkingSets.SetCount != 3 {
		t.Errorf("set count = %d, want 3", plan.WorkingSets.SetCount)
	}
}

// TestDoubleProgression_Hold verifies lagging sets hold the weight and keep
// adding reps.
func TestDoubleProgression_Hold(t *testing.T) {
	p := models.Prescription{
		ProgressionType: models.ProgressionDoubleProgression,
		TopRepsMin:      8,
		TopRepsMax:      12,
		RPECap:          9,
		WorkingSets:     3,
	}
	lagging := &models.SessionRecord{
		ExerciseName: "Dumbbell Row",
		Sets: []models.PerformedSet{
			{WeightKg: 20, Reps: 12, RPE: rpe(8), IsCompleted: true},
			{WeightKg: 20, Reps: 10, RPE: rpe(9), IsCompleted: true},
			{WeightKg: 20, Reps: 9, RPE: rpe(9), IsCompleted: true},
		},
	}
	plan := Next(Input{
		Exercise:     dumbbellRow,
		Prescription: p,
		Last:         lagging,
		Inventory:    loading.DefaultInventory(),
	})

	if plan.WorkingSets.WeightKg != 20 {
		t.Errorf("weight = %v, want held at 20", plan.WorkingSets.WeightKg)
	}
	if plan.WorkingSets.Reps != 9 || plan.WorkingSets.RepsMax != 12 {
		t.Errorf("reps = %d (max %d), want lagging floor 9 toward 12", plan.WorkingSets.Reps, plan.WorkingSets.RepsMax)
	}
}

// TestStraightSets_CarryForward verifies verbatim carryover without a stall.
func TestStraightSets_CarryForward(t *testing.T) {
	p := models.Prescription{
		ProgressionType: models.ProgressionStraightSets,
		TopRepsMin:      5,
		TopRepsMax:      5,
		RPECap:          8,
		WorkingSets:     5,
	}
	plan := Next(Input{
		Exercise:     barbellSquat,
		Prescription: p,
		Last:         lastSession(80, 5, rpe(7)),
		Inventory:    loading.DefaultInventory(),
	})

	if plan.WorkingSets.WeightKg != 80 || plan.WorkingSets.Reps != 5 || plan.WorkingSets.SetCount != 5 {
		t.Errorf("got %v x %d x %d, want 80 x 5 x 5",
			plan.WorkingSets.WeightKg, plan.WorkingSets.Reps, plan.WorkingSets.SetCount)
	}
}

// TestStraightSets_StallFixes verifies the verdict-driven overrides.
func TestStraightSets_StallFixes(t *testing.T) {
	p := models.Prescription{
		ProgressionType: models.ProgressionStraightSets,
		TopRepsMin:      5,
		TopRepsMax:      5,
		RPECap:          8,
		WorkingSets:     5,
	}
	base := Input{
		Exercise:     barbellSquat,
		Prescription: p,
		Last:         lastSession(100, 5, rpe(9)),
		Inventory:    loading.DefaultInventory(),
	}

	deload := base
	deload.Stall = &models.StallVerdict{IsStalled: true, FixType: models.FixDeload, EnoughData: true}
	plan := Next(deload)
	// 100 * 0.92 = 92 -> loadable 92.5.
	if plan.WorkingSets.WeightKg >= 100 {
		t.Errorf("deload weight = %v, want reduced", plan.WorkingSets.WeightKg)
	}

	jump := base
	jump.Stall = &models.StallVerdict{IsStalled: true, FixType: models.FixWeightJump, EnoughData: true}
	plan = Next(jump)
	if plan.WorkingSets.WeightKg <= 100 {
		t.Errorf("weight jump = %v, want strictly above 100", plan.WorkingSets.WeightKg)
	}

	repChange := base
	repChange.Stall = &models.StallVerdict{IsStalled: true, FixType: models.FixRepRangeChange, EnoughData: true}
	plan = Next(repChange)
	if plan.WorkingSets.Reps != 6 {
		t.Errorf("rep change reps = %d, want 6", plan.WorkingSets.Reps)
	}
	if plan.WorkingSets.WeightKg >= 100 {
		t.Errorf("rep change weight = %v, want ~85%% of 100", plan.WorkingSets.WeightKg)
	}
}

// TestNext_Deterministic verifies identical inputs yield identical plans.
func TestNext_Deterministic(t *testing.T) {
	in := Input{
		Exercise:     barbellSquat,
		Prescription: topSetBackoffPrescription(),
		Last:         lastSession(100, 6, rpe(8)),
		Inventory:    loading.DefaultInventory(),
	}
	a, b := Next(in), Next(in)
	if a.TopSet == nil || b.TopSet == nil || *a.TopSet != *b.TopSet {
		t.Errorf("plans differ: %+v vs %+v", a, b)
	}
	if (a.BackoffSets == nil) != (b.BackoffSets == nil) {
		t.Error("backoff presence differs")
	}
}
