package mcp

import (
	"context"

	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ExerciseHistory(ctx context.Context, userID int, exercise string, limit int) ([]models.SessionRecord, error)
	ListExercises(ctx context.Context, userID int) ([]string, error)
	GetEquipment(ctx context.Context, userID int) (models.EquipmentSet, error)
	ActivePainFlags(ctx context.Context, userID int) ([]models.PainFlag, error)
	GetTemplateSlots(ctx context.Context, userID int, name string) ([]models.ExerciseSlot, error)
	ListTemplates(ctx context.Context, userID int) ([]string, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
