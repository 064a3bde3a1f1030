package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionSetRow is a row ready for insertion into the session_sets table.
// One row per logged set; sessions are reconstructed by grouping on
// (session_id, exercise_name).
type SessionSetRow struct {
	SessionID    uuid.UUID
	UserID       int
	SessionName  string
	SessionDate  time.Time
	ExerciseName string
	Equipment    string
	IsWarmup     bool
	SetNumber    int
	WeightKg     float64
	Reps         int
	RPE          *float64
	IsCompleted  bool
}

// PainFlagRow is a row for the pain_flags table.
type PainFlagRow struct {
	UserID     int
	BodyPart   string
	Severity   string
	IsActive   bool
	ReportedAt time.Time
}

// EquipmentRow is a row for the equipment table.
type EquipmentRow struct {
	UserID int
	Token  string
}

// TemplateSlotRow is a row for the template_slots table: one exercise slot
// of a workout template with its prescription.
type TemplateSlotRow struct {
	UserID       int
	TemplateName string
	Position     int
	ExerciseName string
	IsOptional   bool
	Prescription Prescription
}
