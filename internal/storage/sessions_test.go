package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestGroupRecordsFoldsBySession verifies that flat set rows collapse into
// one record per session while preserving the newest-first input order.
func TestGroupRecordsFoldsBySession(t *testing.T) {
	newer := uuid.New()
	older := uuid.New()
	d1 := time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 17, 18, 0, 0, 0, time.UTC)

	flat := []setRow{
		{SessionID: newer, SessionDate: d1, WeightKg: 100, Reps: 5, IsCompleted: true},
		{SessionID: newer, SessionDate: d1, WeightKg: 90, Reps: 8, IsCompleted: true},
		{SessionID: older, SessionDate: d2, WeightKg: 97.5, Reps: 5, IsCompleted: true},
	}

	records := groupRecords("Barbell Squat", flat)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !records[0].Date.Equal(d1) {
		t.Errorf("first record date = %v, want %v (newest first)", records[0].Date, d1)
	}
	if len(records[0].Sets) != 2 {
		t.Errorf("first record has %d sets, want 2", len(records[0].Sets))
	}
	if records[1].Sets[0].WeightKg != 97.5 {
		t.Errorf("older session weight = %v, want 97.5", records[1].Sets[0].WeightKg)
	}
	if records[0].ExerciseName != "Barbell Squat" {
		t.Errorf("exercise name = %q", records[0].ExerciseName)
	}
}

// TestGroupRecordsEmpty verifies that no rows produce no records, not a
// zero-length session.
func TestGroupRecordsEmpty(t *testing.T) {
	if got := groupRecords("Deadlift", nil); got != nil {
		t.Errorf("groupRecords(nil) = %v, want nil", got)
	}
}
