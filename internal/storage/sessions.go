package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftcoach/internal/models"
)

// InsertSessionSets batch-inserts logged sets. Returns count inserted.
// Duplicate rows (same session, exercise, set number) are skipped so
// re-ingesting an export is idempotent.
func (db *DB) InsertSessionSets(ctx context.Context, rows []models.SessionSetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO session_sets (session_id, user_id, session_name, session_date,
		exercise_name, equipment, is_warmup, set_number, weight_kg, reps, rpe, is_completed) VALUES `
	args := make([]any, 0, len(rows)*12)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 12
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
			base+7, base+8, base+9, base+10, base+11, base+12,
		))
		args = append(args, r.SessionID, r.UserID, r.SessionName, r.SessionDate,
			r.ExerciseName, r.Equipment, r.IsWarmup, r.SetNumber,
			r.WeightKg, r.Reps, r.RPE, r.IsCompleted)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting session sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteSessionSets removes all sets logged at the given session date so a
// re-import always reflects the latest parser output.
func (db *DB) DeleteSessionSets(ctx context.Context, sessionDate time.Time, userID int) error {
	_, err := db.Pool.Exec(ctx, `
		DELETE FROM session_sets WHERE user_id = $1 AND session_date = $2`,
		userID, sessionDate)
	if err != nil {
		return fmt.Errorf("deleting session sets: %w", err)
	}
	return nil
}

// setRow is the scan target for history queries.
type setRow struct {
	SessionID   uuid.UUID
	SessionDate time.Time
	WeightKg    float64
	Reps        int
	RPE         *float64
	IsCompleted bool
}

// ExerciseHistory returns the lifter's most recent sessions for one exercise,
// newest first, warmups excluded. At most limit sessions are returned.
func (db *DB) ExerciseHistory(ctx context.Context, userID int, exercise string, limit int) ([]models.SessionRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT session_id, session_date, weight_kg, reps, rpe, is_completed
		FROM session_sets
		WHERE user_id = $1 AND exercise_name = $2 AND NOT is_warmup
		  AND session_id IN (
			SELECT session_id FROM session_sets
			WHERE user_id = $1 AND exercise_name = $2 AND NOT is_warmup
			GROUP BY session_id
			ORDER BY MAX(session_date) DESC
			LIMIT $3
		  )
		ORDER BY session_date DESC, set_number ASC`,
		userID, exercise, limit)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	var flat []setRow
	for rows.Next() {
		var r setRow
		if err := rows.Scan(&r.SessionID, &r.SessionDate, &r.WeightKg, &r.Reps, &r.RPE, &r.IsCompleted); err != nil {
			return nil, fmt.Errorf("scanning session set: %w", err)
		}
		flat = append(flat, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groupRecords(exercise, flat), nil
}

// groupRecords folds flat set rows into per-session records, preserving the
// newest-first ordering of the input.
func groupRecords(exercise string, flat []setRow) []models.SessionRecord {
	var records []models.SessionRecord
	index := make(map[uuid.UUID]int)

	for _, r := range flat {
		i, ok := index[r.SessionID]
		if !ok {
			i = len(records)
			index[r.SessionID] = i
			records = append(records, models.SessionRecord{
				Date:         r.SessionDate,
				ExerciseName: exercise,
			})
		}
		records[i].Sets = append(records[i].Sets, models.PerformedSet{
			WeightKg:    r.WeightKg,
			Reps:        r.Reps,
			RPE:         r.RPE,
			IsCompleted: r.IsCompleted,
		})
	}
	return records
}

// ListExercises returns the distinct exercise names the lifter has logged,
// alphabetically.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT exercise_name FROM session_sets
		WHERE user_id = $1 AND NOT is_warmup
		ORDER BY exercise_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning exercise name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// LastSessionDate returns the date of the lifter's most recent logged set,
// or the zero time when nothing is logged.
func (db *DB) LastSessionDate(ctx context.Context, userID int) (time.Time, error) {
	var t *time.Time
	err := db.Pool.QueryRow(ctx, `
		SELECT MAX(session_date) FROM session_sets WHERE user_id = $1`, userID).Scan(&t)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying last session date: %w", err)
	}
	if t == nil {
		return time.Time{}, nil
	}
	return *t, nil
}
