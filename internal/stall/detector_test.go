package stall

import (
	"testing"
	"time"

	"github.com/claude/liftcoach/internal/models"
)

func rpe(v float64) *float64 { return &v }

// session builds a single-top-set session record for window tests.
func session(daysAgo int, weight float64, reps int, setRPE *float64) models.SessionRecord {
	return models.SessionRecord{
		Date:         time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
		ExerciseName: "Barbell Squat",
		Sets: []models.PerformedSet{
			{WeightKg: weight, Reps: reps, RPE: setRPE, IsCompleted: true},
		},
	}
}

// TestDetect_NotEnoughData verifies the explicit not-enough-data result below
// the minimum window, never a false stall.
func TestDetect_NotEnoughData(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)

	for _, history := range [][]models.SessionRecord{
		nil,
		{session(0, 100, 5, rpe(8))},
		{session(0, 100, 5, rpe(8)), session(7, 100, 5, rpe(8))},
	} {
		v := d.Detect(history)
		if v.EnoughData {
			t.Errorf("window of %d: expected EnoughData=false", len(history))
		}
		if v.IsStalled {
			t.Errorf("window of %d: short windows must never report a stall", len(history))
		}
	}
}

// TestDetect_IncompleteSessionsDontCount verifies sessions without a single
// completed set are excluded from the window.
func TestDetect_IncompleteSessionsDontCount(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	skipped := models.SessionRecord{
		ExerciseName: "Barbell Squat",
		Sets:         []models.PerformedSet{{WeightKg: 100, Reps: 5, IsCompleted: false}},
	}
	history := []models.SessionRecord{
		session(0, 100, 5, rpe(8)),
		skipped,
		session(7, 100, 5, rpe(8)),
	}
	if v := d.Detect(history); v.EnoughData {
		t.Errorf("expected not-enough-data with only 2 completed sessions, got %+v", v)
	}
}

// TestDetect_Improving verifies that >=1% e1RM growth across the window is
// not a stall.
func TestDetect_Improving(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	history := []models.SessionRecord{
		session(0, 105, 5, rpe(8)),
		session(7, 102.5, 5, rpe(8)),
		session(14, 100, 5, rpe(8)),
	}
	v := d.Detect(history)
	if !v.EnoughData || v.IsStalled {
		t.Errorf("expected no stall for improving window, got %+v", v)
	}
}

// TestDetect_DeloadFix verifies rule 1: flat e1RM at avg RPE >= 9 calls for a
// deload, and wins over later rules.
func TestDetect_DeloadFix(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	history := []models.SessionRecord{
		session(0, 100, 5, rpe(9.5)),
		session(7, 100, 5, rpe(9)),
		session(14, 100, 5, rpe(9)),
	}
	v := d.Detect(history)
	if !v.IsStalled || v.FixType != models.FixDeload {
		t.Errorf("expected deload fix, got %+v", v)
	}
}

// TestDetect_RepRangeChangeFix verifies rule 2: grinding low-rep work with
// sub-threshold RPE shifts the rep range.
func TestDetect_RepRangeChangeFix(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	history := []models.SessionRecord{
		session(0, 140, 3, rpe(8.5)),
		session(7, 140, 3, rpe(8.5)),
		session(14, 140, 3, rpe(8)),
	}
	v := d.Detect(history)
	if !v.IsStalled || v.FixType != models.FixRepRangeChange {
		t.Errorf("expected repRangeChange fix, got %+v", v)
	}
}

// TestDetect_VariationSwapFix verifies rule 3: stalls in the 5-8 rep band
// suggest a same-pattern variation.
func TestDetect_VariationSwapFix(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	history := []models.SessionRecord{
		session(0, 100, 6, rpe(8)),
		session(7, 100, 6, rpe(8)),
		session(14, 100, 6, rpe(8)),
	}
	v := d.Detect(history)
	if !v.IsStalled || v.FixType != models.FixVariationSwap {
		t.Errorf("expected variationSwap fix, got %+v", v)
	}
}

// TestDetect_WeightJumpFix verifies rule 4: high-rep plateaus with weight not
// moving force a jump.
func TestDetect_WeightJumpFix(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	history := []models.SessionRecord{
		session(0, 60, 12, rpe(7)),
		session(7, 60, 12, rpe(7)),
		session(14, 60, 12, rpe(7)),
	}
	v := d.Detect(history)
	if !v.IsStalled || v.FixType != models.FixWeightJump {
		t.Errorf("expected weightJump fix, got %+v", v)
	}
}

// TestDetect_NoRPEFallsThrough verifies that windows without RPE data skip
// the deload rule and classify on reps alone.
func TestDetect_NoRPEFallsThrough(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	history := []models.SessionRecord{
		session(0, 140, 3, nil),
		session(7, 140, 3, nil),
		session(14, 140, 3, nil),
	}
	v := d.Detect(history)
	if v.FixType != models.FixRepRangeChange {
		t.Errorf("expected repRangeChange without RPE data, got %+v", v)
	}
}

// TestDetect_Deterministic verifies identical inputs produce identical verdicts.
func TestDetect_Deterministic(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	history := []models.SessionRecord{
		session(0, 100, 6, rpe(8)),
		session(7, 100, 6, rpe(8)),
		session(14, 100, 6, rpe(8)),
	}
	a := d.Detect(history)
	b := d.Detect(history)
	if a != b {
		t.Errorf("verdicts differ: %+v vs %+v", a, b)
	}
}
