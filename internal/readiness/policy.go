// Package readiness maps the lifter's reported state to adjustment directives
// consumed by the progression engine. Pure mapping, no state.
package readiness

import "github.com/claude/liftcoach/internal/models"

// Policy thresholds. Product policy, not physics; overridable via config.
const (
	// DefaultReducedRPECap is the ceiling applied on low-readiness days.
	DefaultReducedRPECap = 7.5
	// DefaultShortSessionMinutes is the time floor below which optional
	// exercises are dropped on low-readiness days.
	DefaultShortSessionMinutes = 45
	// DefaultRPECapRaise is the allowance added on high-readiness days.
	DefaultRPECapRaise = 0.5
)

// Directives are advisory deltas for one session. The progression engine is
// the only consumer; nothing else applies them.
type Directives struct {
	// RPECapCeiling caps the effective RPE for every set when > 0.
	RPECapCeiling float64 `json:"rpe_cap_ceiling,omitempty"`
	// RPECapDelta is added to the prescribed RPE cap (positive on good days).
	RPECapDelta float64 `json:"rpe_cap_delta,omitempty"`
	// SetCountDelta adjusts backoff/working set counts (floor 1 downstream).
	SetCountDelta int `json:"set_count_delta,omitempty"`
	// DropOptional drops optional exercise slots from the plan.
	DropOptional bool `json:"drop_optional,omitempty"`
	// Note explains the adjustment in the produced plan.
	Note string `json:"note,omitempty"`
}

// Neutral reports whether the directives change nothing.
func (d Directives) Neutral() bool {
	return d.RPECapCeiling == 0 && d.RPECapDelta == 0 && d.SetCountDelta == 0 && !d.DropOptional
}

// EffectiveRPECap applies the directives to a prescribed cap.
func (d Directives) EffectiveRPECap(prescribed float64) float64 {
	c := prescribed + d.RPECapDelta
	if d.RPECapCeiling > 0 && c > d.RPECapCeiling {
		c = d.RPECapCeiling
	}
	return c
}

// Evaluate maps a readiness report to directives:
//
//   - low energy OR high soreness reduces intensity: RPE capped at 7.5 and
//     one fewer set, with optional exercises dropped when time is short;
//   - high energy AND no soreness permit more: +0.5 RPE and one extra set;
//   - anything else is neutral.
func Evaluate(r models.Readiness) Directives {
	reduce := r.Energy == models.EnergyLow || r.Soreness == models.SorenessHigh
	increase := r.Energy == models.EnergyHigh && r.Soreness == models.SorenessNone

	switch {
	case reduce:
		d := Directives{
			RPECapCeiling: DefaultReducedRPECap,
			SetCountDelta: -1,
			Note:          "reduced intensity: low readiness",
		}
		if r.TimeAvailableMinutes > 0 && r.TimeAvailableMinutes <= DefaultShortSessionMinutes {
			d.DropOptional = true
		}
		return d
	case increase:
		return Directives{
			RPECapDelta:   DefaultRPECapRaise,
			SetCountDelta: 1,
			Note:          "increased allowance: high readiness",
		}
	default:
		return Directives{}
	}
}
