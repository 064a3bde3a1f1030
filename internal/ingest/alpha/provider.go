package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/claude/liftcoach/internal/ingest"
	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/storage"
)

// Provider processes Alpha Progression CSV exports into session history.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a CSV export and stores the sets as session history.
// Each parsed session gets a fresh session ID; existing sets at the same
// session date are replaced.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	var allRows []models.SessionSetRow

	for _, s := range sessions {
		if err := p.db.DeleteSessionSets(ctx, s.Date, userID); err != nil {
			return nil, fmt.Errorf("deleting existing sets for session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		allRows = append(allRows, SessionRows(s, userID)...)
	}

	if len(allRows) > 0 {
		inserted, err := p.db.InsertSessionSets(ctx, allRows)
		if err != nil {
			return nil, fmt.Errorf("inserting sets: %w", err)
		}
		result.SetsReceived = len(allRows)
		result.SetsInserted = inserted
		result.SetsSkipped = int64(len(allRows)) - inserted
	}

	p.log.Info("alpha ingest complete",
		"sessions", result.SessionsReceived,
		"sets_inserted", result.SetsInserted,
		"sets_skipped", result.SetsSkipped)

	return result, nil
}

// SessionRows flattens one parsed session into rows for the session_sets
// table, minting a fresh session ID.
func SessionRows(s models.AlphaSession, userID int) []models.SessionSetRow {
	sessionID := uuid.New()
	var rows []models.SessionSetRow
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			rows = append(rows, models.SessionSetRow{
				SessionID:    sessionID,
				UserID:       userID,
				SessionName:  s.Name,
				SessionDate:  s.Date,
				ExerciseName: ex.Name,
				Equipment:    EquipmentToken(ex.Equipment),
				IsWarmup:     set.IsWarmup,
				SetNumber:    set.Number,
				WeightKg:     set.WeightKg,
				Reps:         set.Reps,
				RPE:          rpeFromRIR(set),
				IsCompleted:  true,
			})
		}
	}
	return rows
}

// rpeFromRIR converts reps-in-reserve to RPE (RPE = 10 − RIR), clamped to
// the 1..10 scale. Warmup sets carry no effort rating.
func rpeFromRIR(set models.AlphaSet) *float64 {
	if set.IsWarmup {
		return nil
	}
	rpe := 10 - set.RIR
	if rpe > 10 {
		rpe = 10
	}
	if rpe < 1 {
		rpe = 1
	}
	return &rpe
}

// EquipmentToken normalizes an Alpha Progression equipment label to a
// catalog equipment token.
func EquipmentToken(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "barbell":
		return models.EquipBarbell
	case "dumbbell", "dumbbells":
		return models.EquipDumbbell
	case "cable":
		return models.EquipCable
	case "bands", "band":
		return models.EquipBands
	case "bodyweight":
		return models.EquipBodyweight
	case "machine", "smith machine":
		return models.EquipMachine
	default:
		return strings.ToLower(strings.TrimSpace(label))
	}
}
