package mcp

import (
	"context"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/planner"
	"github.com/claude/liftcoach/internal/strength"
)

// historyWindow is how many recent sessions per exercise feed the planner.
const historyWindow = 10

// --- Tool definitions ---

var toolPlanNextSession = mcp.NewTool("plan_next_session",
	mcp.WithDescription("Plan the next workout from a stored template and today's readiness. Returns per-exercise warmups, working weights, rep targets, and the reasoning behind each adjustment."),
	mcp.WithString("template", mcp.Required(), mcp.Description("Name of the stored workout template to plan")),
	mcp.WithString("energy", mcp.Description("Today's energy level. Defaults to 'ok'."), mcp.Enum("low", "ok", "high")),
	mcp.WithString("soreness", mcp.Description("Today's soreness level. Defaults to 'none'."), mcp.Enum("none", "mild", "high")),
	mcp.WithString("time_minutes", mcp.Description("Minutes available for the session (e.g. '60'). Defaults to 90.")),
)

var toolCheckStall = mcp.NewTool("check_stall",
	mcp.WithDescription("Check whether a lift has stalled. Compares estimated 1RM across recent sessions and, when stalled, recommends a fix: deload, rep range change, variation swap, or smaller weight jumps."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Barbell Squat')")),
)

var toolFindSubstitute = mcp.NewTool("find_substitute",
	mcp.WithDescription("Find a substitute for an exercise the lifter cannot perform, honoring available equipment and active pain flags."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name to replace")),
)

var toolEstimate1RM = mcp.NewTool("estimate_1rm",
	mcp.WithDescription("Estimate a one-rep max from a weight and rep count using the Epley or Brzycki formula."),
	mcp.WithString("weight", mcp.Required(), mcp.Description("Weight lifted in kg (e.g. '100' or '102.5')")),
	mcp.WithString("reps", mcp.Required(), mcp.Description("Reps performed at that weight")),
	mcp.WithString("formula", mcp.Description("Estimation formula. Defaults to epley."), mcp.Enum("epley", "brzycki")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Retrieve recent session history for one exercise, newest first. Each session includes every working set with weight, reps, and RPE."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
	mcp.WithString("limit", mcp.Description("Maximum sessions to return. Defaults to 10.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog: movement patterns, muscles, equipment requirements, and whether each lift is a compound."),
)

// --- Tool handlers ---

func (h *handlers) planNextSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template, err := req.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError("template parameter is required"), nil
	}

	readiness := models.Readiness{
		Energy:               models.Energy(req.GetString("energy", string(models.EnergyOK))),
		Soreness:             models.Soreness(req.GetString("soreness", string(models.SorenessNone))),
		TimeAvailableMinutes: 90,
	}
	if v := req.GetString("time_minutes", ""); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes < 1 {
			return mcp.NewToolResultError("time_minutes must be a positive integer"), nil
		}
		readiness.TimeAvailableMinutes = minutes
	}

	uid := UserIDFromContext(ctx)
	slots, err := h.ds.GetTemplateSlots(ctx, uid, template)
	if err != nil {
		h.log.Error("mcp plan_next_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(slots) == 0 {
		return mcp.NewToolResultError("unknown template: " + template), nil
	}

	names := make([]string, 0, len(slots))
	for _, slot := range slots {
		names = append(names, slot.ExerciseName)
	}
	snap, err := h.buildSnapshot(ctx, uid, names)
	if err != nil {
		h.log.Error("mcp plan_next_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	snap.Slots = slots
	snap.Readiness = readiness

	result, err := mcp.NewToolResultJSON(h.planner.Plan(snap))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) checkStall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	snap, err := h.buildSnapshot(ctx, uid, []string{exercise})
	if err != nil {
		h.log.Error("mcp check_stall", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(h.planner.CheckStall(snap, exercise))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) findSubstitute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	if _, known := h.cat.Get(exercise); !known {
		return mcp.NewToolResultError("unknown exercise: " + exercise), nil
	}

	uid := UserIDFromContext(ctx)
	snap, err := h.buildSnapshot(ctx, uid, nil)
	if err != nil {
		h.log.Error("mcp find_substitute", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	decision, ok := h.planner.FindSubstitute(snap, exercise)
	payload := map[string]any{"substitute_found": ok, "exercise": exercise}
	if ok {
		payload["decision"] = decision
	}
	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) estimate1RM(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weightStr, err := req.RequireString("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	repsStr, err := req.RequireString("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return mcp.NewToolResultError("weight must be a number"), nil
	}
	reps, err := strconv.Atoi(repsStr)
	if err != nil {
		return mcp.NewToolResultError("reps must be an integer"), nil
	}

	formula := req.GetString("formula", "epley")
	var e1rm float64
	switch formula {
	case "epley":
		e1rm = strength.Estimate1RM(weight, reps)
	case "brzycki":
		e1rm = strength.Estimate1RMBrzycki(weight, reps)
	default:
		return mcp.NewToolResultError("unknown formula: " + formula), nil
	}
	if e1rm == 0 {
		return mcp.NewToolResultError("weight and reps must be positive"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"weight_kg":     weight,
		"reps":          reps,
		"formula":       formula,
		"estimated_1rm": e1rm,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	limit := historyWindow
	if v := req.GetString("limit", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return mcp.NewToolResultError("limit must be a positive integer"), nil
		}
		limit = n
	}

	uid := UserIDFromContext(ctx)
	records, err := h.ds.ExerciseHistory(ctx, uid, exercise, limit)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := h.cat.Names()
	exercises := make([]models.Exercise, 0, len(names))
	for _, n := range names {
		if ex, ok := h.cat.Get(n); ok {
			exercises = append(exercises, ex)
		}
	}
	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// buildSnapshot loads the lifter's profile and per-exercise history through
// the data source. History covers the named exercises and their catalog
// alternatives, since a substitution redirects planning to the substitute's
// own history.
func (h *handlers) buildSnapshot(ctx context.Context, userID int, exercises []string) (planner.Snapshot, error) {
	equipment, err := h.ds.GetEquipment(ctx, userID)
	if err != nil {
		return planner.Snapshot{}, err
	}
	painFlags, err := h.ds.ActivePainFlags(ctx, userID)
	if err != nil {
		return planner.Snapshot{}, err
	}

	history := make(map[string][]models.SessionRecord)
	seen := make(map[string]bool)
	fetch := func(name string) error {
		if seen[name] {
			return nil
		}
		seen[name] = true
		records, err := h.ds.ExerciseHistory(ctx, userID, name, historyWindow)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			history[name] = records
		}
		return nil
	}
	for _, name := range exercises {
		if err := fetch(name); err != nil {
			return planner.Snapshot{}, err
		}
		for _, alt := range h.cat.Alternatives(name) {
			if err := fetch(alt); err != nil {
				return planner.Snapshot{}, err
			}
		}
	}

	return planner.Snapshot{
		History:   history,
		Equipment: equipment,
		PainFlags: painFlags,
		Inventory: h.inventory,
		Now:       time.Now().UTC(),
	}, nil
}
