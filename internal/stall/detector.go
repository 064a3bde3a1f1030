// Package stall scans a short window of recent sessions for one exercise and
// classifies whether progress has stopped, selecting exactly one corrective
// fix from a fixed taxonomy when it has.
package stall

import (
	"fmt"
	"strings"

	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/strength"
)

// Config holds the classification thresholds. The values are product policy;
// they are configurable but their defaults are not to be tuned casually.
type Config struct {
	// MinimumSessions is the smallest window that supports a verdict.
	MinimumSessions int
	// ImprovementThresholdPct is the oldest-to-newest e1RM gain, in percent,
	// below which the window counts as stalled.
	ImprovementThresholdPct float64
	// DeloadRPEThreshold triggers the deload fix when the window's average
	// RPE reaches it.
	DeloadRPEThreshold float64
	// LowRepThreshold triggers the rep-range-change fix at or below it.
	LowRepThreshold float64
	// ModerateRepMax bounds the variation-swap band; the band's floor is
	// LowRepThreshold exclusive.
	ModerateRepMax float64
	// DeloadDropPct is the recommended load reduction for a deload.
	DeloadDropPct float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinimumSessions:         3,
		ImprovementThresholdPct: 1.0,
		DeloadRPEThreshold:      9.0,
		LowRepThreshold:         4,
		ModerateRepMax:          8,
		DeloadDropPct:           8,
	}
}

// Detector classifies stalls. Stateless beyond its configuration and the
// static variation lookup; safe for concurrent use.
type Detector struct {
	cfg Config
	cat *catalog.Catalog
}

// NewDetector creates a Detector. cat may be nil; variation suggestions are
// then empty.
func NewDetector(cfg Config, cat *catalog.Catalog) *Detector {
	if cfg.MinimumSessions <= 0 {
		cfg = DefaultConfig()
	}
	return &Detector{cfg: cfg, cat: cat}
}

// Detect examines the most recent completed sessions for one exercise,
// most-recent-first. Below the minimum window it returns an explicit
// not-enough-data verdict, never a false stall. Fix selection ties resolve in
// taxonomy order: deload, repRangeChange, variationSwap, weightJump.
func (d *Detector) Detect(history []models.SessionRecord) models.StallVerdict {
	window := completedWindow(history, d.cfg.MinimumSessions)
	if len(window) < d.cfg.MinimumSessions {
		return models.StallVerdict{
			Reason:     fmt.Sprintf("not enough data: %d of %d sessions", len(window), d.cfg.MinimumSessions),
			EnoughData: false,
		}
	}

	newest := topSetE1RM(window[0])
	oldest := topSetE1RM(window[len(window)-1])
	if oldest <= 0 {
		return models.StallVerdict{Reason: "not enough data: no completed top set in window", EnoughData: false}
	}

	improvement := (newest - oldest) / oldest * 100
	if improvement >= d.cfg.ImprovementThresholdPct {
		return models.StallVerdict{
			IsStalled:  false,
			Reason:     fmt.Sprintf("e1RM improved %.1f%% across window", improvement),
			EnoughData: true,
		}
	}

	avgRPE, haveRPE := averageRPE(window)
	avgReps := averageReps(window)

	verdict := models.StallVerdict{
		IsStalled:  true,
		Reason:     fmt.Sprintf("e1RM changed %.1f%% across %d sessions", improvement, len(window)),
		EnoughData: true,
	}

	switch {
	case haveRPE && avgRPE >= d.cfg.DeloadRPEThreshold:
		verdict.FixType = models.FixDeload
		verdict.Details = fmt.Sprintf("reduce load ~%.0f%% and hold for one week (avg RPE %.1f)", d.cfg.DeloadDropPct, avgRPE)
	case avgReps <= d.cfg.LowRepThreshold:
		verdict.FixType = models.FixRepRangeChange
		verdict.Details = "shift to 6-8 reps at ~85% of current load for 2-3 weeks"
	case avgReps <= d.cfg.ModerateRepMax:
		verdict.FixType = models.FixVariationSwap
		verdict.Details = d.variationDetails(window[0].ExerciseName)
	default:
		verdict.FixType = models.FixWeightJump
		verdict.Details = "force +2.5-5 load units next session even if reps regress"
	}
	return verdict
}

func (d *Detector) variationDetails(exercise string) string {
	msg := "swap to a same-pattern variation for 3-4 weeks"
	if d.cat == nil {
		return msg
	}
	if vars := d.cat.Variations(exercise); len(vars) > 0 {
		return msg + ": " + strings.Join(vars, ", ")
	}
	return msg
}

// completedWindow takes up to n sessions that contain at least one completed
// set, preserving most-recent-first order.
func completedWindow(history []models.SessionRecord, n int) []models.SessionRecord {
	var out []models.SessionRecord
	for _, s := range history {
		if hasCompletedSet(s) {
			out = append(out, s)
		}
		if len(out) == n {
			break
		}
	}
	return out
}

func hasCompletedSet(s models.SessionRecord) bool {
	for _, set := range s.Sets {
		if set.IsCompleted {
			return true
		}
	}
	return false
}

// topSetE1RM returns the e1RM of the session's top set: the completed set
// with the highest estimated max.
func topSetE1RM(s models.SessionRecord) float64 {
	best := 0.0
	for _, set := range s.Sets {
		if !set.IsCompleted {
			continue
		}
		if e := strength.Estimate1RM(set.WeightKg, set.Reps); e > best {
			best = e
		}
	}
	return best
}

// averageRPE averages reported RPE across completed sets in the window.
// Returns false when no set carries an RPE.
func averageRPE(window []models.SessionRecord) (float64, bool) {
	var sum float64
	var n int
	for _, s := range window {
		for _, set := range s.Sets {
			if set.IsCompleted && set.RPE != nil {
				sum += *set.RPE
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func averageReps(window []models.SessionRecord) float64 {
	var sum, n int
	for _, s := range window {
		for _, set := range s.Sets {
			if set.IsCompleted {
				sum += set.Reps
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
