package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/loading"
	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/planner"
	"github.com/claude/liftcoach/internal/stall"
)

// fakeDataSource serves canned profile and history data for tool handler
// tests, the local counterpart to the httptest servers in httpclient_test.go.
type fakeDataSource struct {
	history   map[string][]models.SessionRecord
	equipment models.EquipmentSet
	pain      []models.PainFlag
	templates map[string][]models.ExerciseSlot
}

func (f *fakeDataSource) ExerciseHistory(_ context.Context, _ int, exercise string, _ int) ([]models.SessionRecord, error) {
	return f.history[exercise], nil
}

func (f *fakeDataSource) ListExercises(_ context.Context, _ int) ([]string, error) {
	names := make([]string, 0, len(f.history))
	for name := range f.history {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeDataSource) GetEquipment(_ context.Context, _ int) (models.EquipmentSet, error) {
	return f.equipment, nil
}

func (f *fakeDataSource) ActivePainFlags(_ context.Context, _ int) ([]models.PainFlag, error) {
	return f.pain, nil
}

func (f *fakeDataSource) GetTemplateSlots(_ context.Context, _ int, name string) ([]models.ExerciseSlot, error) {
	return f.templates[name], nil
}

func (f *fakeDataSource) ListTemplates(_ context.Context, _ int) ([]string, error) {
	names := make([]string, 0, len(f.templates))
	for name := range f.templates {
		names = append(names, name)
	}
	return names, nil
}

func newTestHandlers(t *testing.T, ds DataSource) *handlers {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return &handlers{
		ds:        ds,
		cat:       cat,
		planner:   planner.New(cat, stall.DefaultConfig()),
		inventory: loading.DefaultInventory(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func toolCall(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText pulls the first text block out of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestPlanNextSession runs the planner against a stored template and checks
// the decoded plan covers every slot.
func TestPlanNextSession(t *testing.T) {
	ds := &fakeDataSource{
		equipment: models.NewEquipmentSet(
			models.EquipBarbell, models.EquipRack, models.EquipBench,
		),
		templates: map[string][]models.ExerciseSlot{
			"push": {{
				ExerciseName: "Bench Press",
				Prescription: models.Prescription{
					ProgressionType: models.ProgressionStraightSets,
					TopRepsMin:      5,
					TopRepsMax:      5,
					RPECap:          8,
					WorkingSets:     3,
				},
			}},
		},
		history: map[string][]models.SessionRecord{
			"Bench Press": {{
				Date:         time.Now().AddDate(0, 0, -3),
				ExerciseName: "Bench Press",
				Sets:         []models.PerformedSet{{WeightKg: 80, Reps: 5, IsCompleted: true}},
			}},
		},
	}
	h := newTestHandlers(t, ds)

	res, err := h.planNextSession(context.Background(), toolCall(map[string]any{"template": "push"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var plan models.PlanResponse
	if err := json.Unmarshal([]byte(resultText(t, res)), &plan); err != nil {
		t.Fatalf("decoding plan: %v", err)
	}
	if len(plan.Exercises) != 1 {
		t.Fatalf("plan exercises = %d, want 1", len(plan.Exercises))
	}
	if plan.Exercises[0].ExerciseName != "Bench Press" {
		t.Errorf("exercise = %q, want Bench Press", plan.Exercises[0].ExerciseName)
	}
	if plan.Exercises[0].WorkingSets == nil {
		t.Error("straight-sets slot has no working sets")
	}
}

// TestPlanNextSessionArgumentErrors covers the argument validation paths:
// missing template, unknown template, and a non-numeric time budget.
func TestPlanNextSessionArgumentErrors(t *testing.T) {
	h := newTestHandlers(t, &fakeDataSource{})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing template", map[string]any{}, "template parameter is required"},
		{"unknown template", map[string]any{"template": "nope"}, "unknown template: nope"},
		{"bad time", map[string]any{"template": "push", "time_minutes": "soon"}, "time_minutes must be a positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.planNextSession(context.Background(), toolCall(tt.args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected a tool error result")
			}
			if got := resultText(t, res); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestCheckStallNoHistory verifies a lift with no logged sessions reports
// insufficient data rather than a stall.
func TestCheckStallNoHistory(t *testing.T) {
	h := newTestHandlers(t, &fakeDataSource{})

	res, err := h.checkStall(context.Background(), toolCall(map[string]any{"exercise": "Barbell Squat"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var verdict models.StallVerdict
	if err := json.Unmarshal([]byte(resultText(t, res)), &verdict); err != nil {
		t.Fatalf("decoding verdict: %v", err)
	}
	if verdict.IsStalled {
		t.Error("empty history flagged as stalled")
	}
	if verdict.EnoughData {
		t.Error("empty history reported as enough data")
	}
}

// TestFindSubstituteTool verifies a pain-blocked lift resolves through the
// catalog and an unknown name is a tool error.
func TestFindSubstituteTool(t *testing.T) {
	ds := &fakeDataSource{
		equipment: models.NewEquipmentSet(
			models.EquipBarbell, models.EquipRack, models.EquipDumbbell,
			models.EquipMachine, models.EquipBench,
		),
		pain: []models.PainFlag{{BodyPart: "core", IsActive: true}},
	}
	h := newTestHandlers(t, ds)

	res, err := h.findSubstitute(context.Background(), toolCall(map[string]any{"exercise": "Barbell Squat"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var payload struct {
		Found    bool                         `json:"substitute_found"`
		Decision *models.SubstitutionDecision `json:"decision"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if !payload.Found || payload.Decision == nil {
		t.Fatalf("expected a substitute, got %s", resultText(t, res))
	}
	if payload.Decision.From != "Barbell Squat" {
		t.Errorf("From = %q, want Barbell Squat", payload.Decision.From)
	}
	// Core pain blocks Front Squat; Goblet Squat is the next preference.
	if payload.Decision.To != "Goblet Squat" {
		t.Errorf("To = %q, want Goblet Squat", payload.Decision.To)
	}

	res, err = h.findSubstitute(context.Background(), toolCall(map[string]any{"exercise": "Weighted Handstand Walk"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("unknown exercise should be a tool error")
	}
}

// TestEstimate1RMTool covers the happy path and numeric validation.
func TestEstimate1RMTool(t *testing.T) {
	h := newTestHandlers(t, &fakeDataSource{})

	res, err := h.estimate1RM(context.Background(), toolCall(map[string]any{"weight": "100", "reps": "5"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var out struct {
		Formula      string  `json:"formula"`
		Estimated1RM float64 `json:"estimated_1rm"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if out.Formula != "epley" {
		t.Errorf("formula = %q, want epley", out.Formula)
	}
	// 100 × (1 + 5/30)
	if want := 100 * (1 + 5.0/30.0); out.Estimated1RM < want-0.01 || out.Estimated1RM > want+0.01 {
		t.Errorf("estimated_1rm = %v, want %v", out.Estimated1RM, want)
	}

	res, err = h.estimate1RM(context.Background(), toolCall(map[string]any{"weight": "heavy", "reps": "5"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Error("non-numeric weight should be a tool error")
	}
}
