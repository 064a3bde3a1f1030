// Package planner assembles the next actionable workout from a context
// snapshot: readiness directives first, then substitutions, then per-exercise
// progression, with every weight rounded to a loadable value and warmup
// ladders attached. Pure computation over the snapshot; the caller owns all
// I/O.
package planner

import (
	"time"

	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/loading"
	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/progression"
	"github.com/claude/liftcoach/internal/readiness"
	"github.com/claude/liftcoach/internal/stall"
	"github.com/claude/liftcoach/internal/substitution"
)

// Snapshot is everything a plan computation needs, supplied by the caller.
// History slices are most-recent-first and are never mutated.
type Snapshot struct {
	Slots        []models.ExerciseSlot
	History      map[string][]models.SessionRecord
	Readiness    models.Readiness
	Equipment    models.EquipmentSet
	PainFlags    []models.PainFlag
	Inventory    loading.Inventory
	StartWeights map[string]float64
	Now          time.Time
}

// Planner wires the decision components together. Stateless; safe for
// concurrent use.
type Planner struct {
	cat      *catalog.Catalog
	resolver *substitution.Resolver
	detector *stall.Detector
}

// New creates a Planner over the given catalog and stall thresholds.
func New(cat *catalog.Catalog, stallCfg stall.Config) *Planner {
	return &Planner{
		cat:      cat,
		resolver: substitution.NewResolver(cat),
		detector: stall.NewDetector(stallCfg, cat),
	}
}

// Plan computes the next workout for the snapshot. Infeasible slots
// (no catalog entry and no substitute) are carried through with a note
// rather than dropped; only the readiness policy drops optional slots.
func (p *Planner) Plan(s Snapshot) models.PlanResponse {
	directives := readiness.Evaluate(s.Readiness)

	resp := models.PlanResponse{GeneratedAt: s.Now}
	if directives.Note != "" {
		resp.Notes = directives.Note
	}

	for _, slot := range s.Slots {
		if slot.IsOptional && directives.DropOptional {
			resp.Dropped = append(resp.Dropped, slot.ExerciseName)
			continue
		}
		resp.Exercises = append(resp.Exercises, p.planSlot(s, slot, directives))
	}
	return resp
}

// CheckStall runs the stall detector for one exercise on demand.
func (p *Planner) CheckStall(s Snapshot, exerciseName string) models.StallVerdict {
	return p.detector.Detect(s.History[exerciseName])
}

// FindSubstitute exposes the substitution resolver over the snapshot.
func (p *Planner) FindSubstitute(s Snapshot, exerciseName string) (models.SubstitutionDecision, bool) {
	return p.resolver.FindSubstitute(exerciseName, s.Equipment, s.PainFlags)
}

func (p *Planner) planSlot(s Snapshot, slot models.ExerciseSlot, directives readiness.Directives) models.ExercisePlan {
	name := slot.ExerciseName
	var substituted *models.SubstitutionDecision

	if p.resolver.NeedsSubstitution(name, s.Equipment, s.PainFlags) {
		if dec, ok := p.resolver.FindSubstitute(name, s.Equipment, s.PainFlags); ok {
			substituted = &dec
			name = dec.To
		}
		// No substitute found: keep the original slot and let the lifter
		// decide; the plan notes carry the constraint.
	}

	ex, known := p.cat.Get(name)
	if !known {
		// Uncataloged exercises still progress; equipment tags default to
		// barbell-free so increments stay conservative.
		ex = models.Exercise{Name: name}
	}

	history := s.History[name]
	var last *models.SessionRecord
	if len(history) > 0 {
		last = &history[0]
	}

	in := progression.Input{
		Exercise:     ex,
		Prescription: slot.Prescription,
		Last:         last,
		Directives:   directives,
		Inventory:    s.Inventory,
		StartWeight:  s.StartWeights[name],
	}
	if slot.Prescription.ProgressionType == models.ProgressionStraightSets {
		if v := p.detector.Detect(history); v.EnoughData {
			in.Stall = &v
		}
	}

	plan := progression.Next(in)
	plan.Substituted = substituted
	p.attachWarmups(&plan, ex, s.Inventory)
	return plan
}

// attachWarmups builds the ascending ladder for the heaviest planned set.
// Ladders are plate math, so only barbell work gets one.
func (p *Planner) attachWarmups(plan *models.ExercisePlan, ex models.Exercise, inv loading.Inventory) {
	if !models.NewEquipmentSet(ex.EquipmentRequired...).Has(models.EquipBarbell) {
		return
	}
	target := 0.0
	if plan.TopSet != nil {
		target = plan.TopSet.WeightKg
	} else if plan.WorkingSets != nil {
		target = plan.WorkingSets.WeightKg
	}
	if target <= inv.BarWeight {
		return
	}
	for _, w := range loading.WarmupLadder(target, inv.BarWeight, inv.Plates) {
		plan.Warmups = append(plan.Warmups, models.WarmupSet{WeightKg: w.WeightKg, Reps: w.Reps})
	}
}
