package models

import "time"

// Energy is the lifter's self-reported energy level for the day.
type Energy string

// Energy levels.
const (
	EnergyLow  Energy = "low"
	EnergyOK   Energy = "ok"
	EnergyHigh Energy = "high"
)

// Soreness is the lifter's self-reported soreness level.
type Soreness string

// Soreness levels.
const (
	SorenessNone Soreness = "none"
	SorenessMild Soreness = "mild"
	SorenessHigh Soreness = "high"
)

// ProgressionType selects the progression scheme for an exercise slot.
type ProgressionType string

// Progression schemes.
const (
	ProgressionTopSetBackoff     ProgressionType = "topSetBackoff"
	ProgressionDoubleProgression ProgressionType = "doubleProgression"
	ProgressionStraightSets      ProgressionType = "straightSets"
)

// FixType is the corrective action a stall verdict recommends.
type FixType string

// Stall fixes, in classification priority order.
const (
	FixDeload         FixType = "deload"
	FixRepRangeChange FixType = "repRangeChange"
	FixVariationSwap  FixType = "variationSwap"
	FixWeightJump     FixType = "weightJump"
)

// PerformedSet is one logged set. Immutable after creation; later sessions
// supersede it, nothing mutates it.
type PerformedSet struct {
	WeightKg    float64  `json:"weight_kg"`
	Reps        int      `json:"reps"`
	RPE         *float64 `json:"rpe,omitempty"`
	IsCompleted bool     `json:"is_completed"`
}

// SessionRecord is one exercise's performance within one workout.
type SessionRecord struct {
	Date         time.Time      `json:"date"`
	ExerciseName string         `json:"exercise_name"`
	Sets         []PerformedSet `json:"sets"`
}

// Prescription describes the progression rules for one exercise slot,
// not a specific day's numbers. Owned by the workout template; read-only here.
type Prescription struct {
	ProgressionType        ProgressionType `json:"progression_type" yaml:"progression_type"`
	TopRepsMin             int             `json:"top_reps_min" yaml:"top_reps_min"`
	TopRepsMax             int             `json:"top_reps_max" yaml:"top_reps_max"`
	RPECap                 float64         `json:"rpe_cap" yaml:"rpe_cap"`
	BackoffSets            int             `json:"backoff_sets" yaml:"backoff_sets"`
	BackoffRepsMin         int             `json:"backoff_reps_min" yaml:"backoff_reps_min"`
	BackoffRepsMax         int             `json:"backoff_reps_max" yaml:"backoff_reps_max"`
	BackoffLoadDropPercent float64         `json:"backoff_load_drop_percent" yaml:"backoff_load_drop_percent"`
	WorkingSets            int             `json:"working_sets" yaml:"working_sets"`
}

// Readiness is the lifter's state for today. Supplied fresh each session,
// never persisted.
type Readiness struct {
	Energy               Energy   `json:"energy"`
	Soreness             Soreness `json:"soreness"`
	TimeAvailableMinutes int      `json:"time_available_minutes"`
}

// PainFlag marks a body part the lifter reports as painful. Consulted
// read-only; only active flags constrain exercise selection.
type PainFlag struct {
	BodyPart string `json:"body_part"`
	Severity string `json:"severity"`
	IsActive bool   `json:"is_active"`
}

// EquipmentSet is the set of equipment tokens available to the lifter.
type EquipmentSet map[string]struct{}

// NewEquipmentSet builds an EquipmentSet from tokens.
func NewEquipmentSet(tokens ...string) EquipmentSet {
	s := make(EquipmentSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether the token is present.
func (s EquipmentSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// ContainsAll reports whether every required token is present.
func (s EquipmentSet) ContainsAll(required []string) bool {
	for _, t := range required {
		if !s.Has(t) {
			return false
		}
	}
	return true
}

// Tokens returns the tokens as a slice, in no particular order.
func (s EquipmentSet) Tokens() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	return out
}

// Common equipment tokens.
const (
	EquipBarbell    = "barbell"
	EquipDumbbell   = "dumbbell"
	EquipCable      = "cable"
	EquipBands      = "bands"
	EquipBodyweight = "bodyweight"
	EquipMachine    = "machine"
	EquipRack       = "rack"
	EquipBench      = "bench"
	EquipPullUpBar  = "pullUpBar"
)

// Exercise is a catalog entry consumed read-only from the exercise catalog.
type Exercise struct {
	Name              string   `json:"name" yaml:"name"`
	MovementPattern   string   `json:"movement_pattern" yaml:"movement_pattern"`
	PrimaryMuscles    []string `json:"primary_muscles" yaml:"primary_muscles"`
	SecondaryMuscles  []string `json:"secondary_muscles,omitempty" yaml:"secondary_muscles"`
	EquipmentRequired []string `json:"equipment_required" yaml:"equipment_required"`
	IsCompound        bool     `json:"is_compound" yaml:"is_compound"`
}

// PlannedSet is the engine's output unit. Weight is always rounded to a
// loadable value before it leaves the engine.
type PlannedSet struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
	RepsMax  int     `json:"reps_max,omitempty"`
	RPECap   float64 `json:"rpe_cap"`
	SetCount int     `json:"set_count"`
}

// WarmupSet is one rung of a warmup ladder.
type WarmupSet struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
}

// StallVerdict is the stall detector's answer for one exercise.
type StallVerdict struct {
	IsStalled  bool    `json:"is_stalled"`
	Reason     string  `json:"reason"`
	FixType    FixType `json:"fix_type,omitempty"`
	Details    string  `json:"details,omitempty"`
	EnoughData bool    `json:"enough_data"`
}

// SubstitutionDecision records a swap made by the substitution resolver.
type SubstitutionDecision struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// ExercisePlan is the per-exercise slice of a plan response.
type ExercisePlan struct {
	ExerciseName string                `json:"exercise_name"`
	Substituted  *SubstitutionDecision `json:"substituted,omitempty"`
	Warmups      []WarmupSet           `json:"warmups,omitempty"`
	TopSet       *PlannedSet           `json:"top_set,omitempty"`
	BackoffSets  *PlannedSet           `json:"backoff_sets,omitempty"`
	WorkingSets  *PlannedSet           `json:"working_sets,omitempty"`
	Adjustment   string                `json:"adjustment,omitempty"`
	Reasoning    string                `json:"reasoning,omitempty"`
}

// PlanResponse is the produced plan contract: the next actionable workout.
type PlanResponse struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Exercises   []ExercisePlan `json:"exercises"`
	Dropped     []string       `json:"dropped,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

// ExerciseSlot binds a catalog exercise to its prescription within a
// workout template. Optional slots are the first dropped under time pressure.
type ExerciseSlot struct {
	ExerciseName string       `json:"exercise_name" yaml:"exercise_name"`
	Prescription Prescription `json:"prescription" yaml:"prescription"`
	IsOptional   bool         `json:"is_optional" yaml:"is_optional"`
}
