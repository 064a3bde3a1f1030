package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftcoach/internal/models"
)

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"liftcoach://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All known exercises with movement patterns, muscles, equipment requirements, and substitution alternatives"),
	mcp.WithMIMEType("application/json"),
)

var resTrainingStatus = mcp.NewResource(
	"liftcoach://training_status",
	"Training Status",
	mcp.WithResourceDescription("The lifter's profile: workout templates, logged exercises, available equipment, and active pain flags"),
	mcp.WithMIMEType("application/json"),
)

var resPlateInventory = mcp.NewResource(
	"liftcoach://plate_inventory",
	"Plate Inventory",
	mcp.WithResourceDescription("The gym's bar weight, plate pairs, and dumbbell rack used for load rounding"),
	mcp.WithMIMEType("application/json"),
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names := h.cat.Names()
	entries := make([]map[string]any, 0, len(names))
	for _, n := range names {
		ex, ok := h.cat.Get(n)
		if !ok {
			continue
		}
		entries = append(entries, map[string]any{
			"exercise":     ex,
			"alternatives": h.cat.Alternatives(n),
			"variations":   h.cat.Variations(n),
		})
	}
	return jsonResource(req.Params.URI, entries)
}

func (h *handlers) trainingStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	templates, err := h.ds.ListTemplates(ctx, uid)
	if err != nil {
		return nil, err
	}

	logged, err := h.ds.ListExercises(ctx, uid)
	if err != nil {
		h.log.Warn("training_status: logged exercises failed", "error", err)
	}

	equipment, err := h.ds.GetEquipment(ctx, uid)
	if err != nil {
		h.log.Warn("training_status: equipment failed", "error", err)
		equipment = models.EquipmentSet{}
	}

	painFlags, err := h.ds.ActivePainFlags(ctx, uid)
	if err != nil {
		h.log.Warn("training_status: pain flags failed", "error", err)
	}

	return jsonResource(req.Params.URI, map[string]any{
		"templates":        templates,
		"logged_exercises": logged,
		"equipment":        equipment.Tokens(),
		"pain_flags":       painFlags,
	})
}

func (h *handlers) plateInventory(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.inventory)
}
