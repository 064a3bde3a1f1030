package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftcoach/internal/models"
)

// UpsertPainFlag records or updates a pain flag for a body part. A repeat
// report for the same body part replaces the previous severity and status.
func (db *DB) UpsertPainFlag(ctx context.Context, userID int, flag models.PainFlag) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO pain_flags (user_id, body_part, severity, is_active, reported_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, body_part) DO UPDATE
			SET severity = $3, is_active = $4, reported_at = NOW()`,
		userID, flag.BodyPart, flag.Severity, flag.IsActive)
	if err != nil {
		return fmt.Errorf("upserting pain flag: %w", err)
	}
	return nil
}

// ActivePainFlags returns the lifter's currently active pain flags.
func (db *DB) ActivePainFlags(ctx context.Context, userID int) ([]models.PainFlag, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT body_part, severity, is_active FROM pain_flags
		WHERE user_id = $1 AND is_active
		ORDER BY body_part`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying pain flags: %w", err)
	}
	defer rows.Close()

	var flags []models.PainFlag
	for rows.Next() {
		var f models.PainFlag
		if err := rows.Scan(&f.BodyPart, &f.Severity, &f.IsActive); err != nil {
			return nil, fmt.Errorf("scanning pain flag: %w", err)
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}
