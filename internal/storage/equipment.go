package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftcoach/internal/models"
)

// ReplaceEquipment replaces the lifter's available equipment tokens with the
// given set. Runs in a transaction so readers never see a partial list.
func (db *DB) ReplaceEquipment(ctx context.Context, userID int, tokens []string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning equipment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM equipment WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing equipment: %w", err)
	}
	for _, token := range tokens {
		if _, err := tx.Exec(ctx, `
			INSERT INTO equipment (user_id, token) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, userID, token); err != nil {
			return fmt.Errorf("inserting equipment token: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// GetEquipment returns the lifter's available equipment as a set.
func (db *DB) GetEquipment(ctx context.Context, userID int) (models.EquipmentSet, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT token FROM equipment WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying equipment: %w", err)
	}
	defer rows.Close()

	set := make(models.EquipmentSet)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scanning equipment token: %w", err)
		}
		set[token] = struct{}{}
	}
	return set, rows.Err()
}
