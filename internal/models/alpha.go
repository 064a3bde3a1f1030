package models

import "time"

// AlphaSession is a parsed Alpha Progression workout session, the
// intermediate shape between the CSV export and session_sets rows.
type AlphaSession struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []AlphaExercise
}

// AlphaExercise is a single exercise within a session.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// WorkingSets returns the sets that count toward progression, warmups
// excluded.
func (e AlphaExercise) WorkingSets() []AlphaSet {
	var sets []AlphaSet
	for _, s := range e.Sets {
		if !s.IsWarmup {
			sets = append(sets, s)
		}
	}
	return sets
}

// AlphaSet is a single logged set (working or warmup). RIR is the
// reps-in-reserve recorded by the app; ingest converts it to RPE.
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}
