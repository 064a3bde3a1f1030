package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftcoach/internal/models"
)

// ReplaceTemplate replaces all slots of a named workout template. The
// prescription travels as JSONB so the schema does not chase every
// progression field.
func (db *DB) ReplaceTemplate(ctx context.Context, userID int, name string, slots []models.ExerciseSlot) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning template tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM template_slots WHERE user_id = $1 AND template_name = $2`,
		userID, name); err != nil {
		return fmt.Errorf("clearing template slots: %w", err)
	}
	for i, slot := range slots {
		if _, err := tx.Exec(ctx, `
			INSERT INTO template_slots (user_id, template_name, position, exercise_name, is_optional, prescription)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			userID, name, i, slot.ExerciseName, slot.IsOptional, slot.Prescription); err != nil {
			return fmt.Errorf("inserting template slot: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// GetTemplateSlots returns the slots of a named template in position order.
func (db *DB) GetTemplateSlots(ctx context.Context, userID int, name string) ([]models.ExerciseSlot, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT exercise_name, is_optional, prescription FROM template_slots
		WHERE user_id = $1 AND template_name = $2
		ORDER BY position`, userID, name)
	if err != nil {
		return nil, fmt.Errorf("querying template slots: %w", err)
	}
	defer rows.Close()

	var slots []models.ExerciseSlot
	for rows.Next() {
		var s models.ExerciseSlot
		if err := rows.Scan(&s.ExerciseName, &s.IsOptional, &s.Prescription); err != nil {
			return nil, fmt.Errorf("scanning template slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ListTemplates returns the lifter's template names, alphabetically.
func (db *DB) ListTemplates(ctx context.Context, userID int) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT template_name FROM template_slots
		WHERE user_id = $1 ORDER BY template_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning template name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
