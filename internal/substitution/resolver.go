// Package substitution selects an alternative exercise when the prescribed
// one is blocked by missing equipment or an active pain flag. The candidate
// walk is static and preference-ordered; the first feasible, pain-safe
// alternative wins.
package substitution

import (
	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/models"
)

// Resolver walks the catalog's substitution graph.
type Resolver struct {
	cat *catalog.Catalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// NeedsSubstitution reports whether the exercise is blocked for this lifter:
// an equipment gap or a pain conflict on a primary muscle. Unknown exercises
// are never flagged; there is nothing to resolve them against.
func (r *Resolver) NeedsSubstitution(name string, equipment models.EquipmentSet, pain []models.PainFlag) bool {
	ex, ok := r.cat.Get(name)
	if !ok {
		return false
	}
	return !equipment.ContainsAll(ex.EquipmentRequired) || painConflict(ex, pain)
}

// FindSubstitute returns the first alternative whose required equipment is a
// subset of the available set and whose primary muscles avoid every active
// pain flag. The second return is false when the exercise has no catalog
// entry or no alternative satisfies both constraints; that is a result, not
// an error.
func (r *Resolver) FindSubstitute(name string, equipment models.EquipmentSet, pain []models.PainFlag) (models.SubstitutionDecision, bool) {
	blockedEx, known := r.cat.Get(name)
	for _, altName := range r.cat.Alternatives(name) {
		alt, ok := r.cat.Get(altName)
		if !ok {
			continue
		}
		if !equipment.ContainsAll(alt.EquipmentRequired) {
			continue
		}
		if painConflict(alt, pain) {
			continue
		}
		return models.SubstitutionDecision{
			From:   name,
			To:     alt.Name,
			Reason: blockReason(blockedEx, known, equipment, pain),
		}, true
	}
	return models.SubstitutionDecision{}, false
}

// painConflict reports whether any active pain flag names one of the
// exercise's primary muscles. Secondary muscles do not block.
func painConflict(ex models.Exercise, pain []models.PainFlag) bool {
	for _, flag := range pain {
		if !flag.IsActive {
			continue
		}
		for _, m := range ex.PrimaryMuscles {
			if m == flag.BodyPart {
				return true
			}
		}
	}
	return false
}

func blockReason(ex models.Exercise, known bool, equipment models.EquipmentSet, pain []models.PainFlag) string {
	if !known {
		return "exercise unavailable"
	}
	if !equipment.ContainsAll(ex.EquipmentRequired) {
		return "missing equipment"
	}
	if painConflict(ex, pain) {
		return "pain conflict"
	}
	return "preference"
}
