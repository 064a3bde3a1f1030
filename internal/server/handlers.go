package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/liftcoach/internal/models"
	"github.com/claude/liftcoach/internal/planner"
	"github.com/claude/liftcoach/internal/strength"
)

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body, s.userID)
	if err != nil {
		s.log.Error("alpha ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// logSessionRequest is a manually logged workout session.
type logSessionRequest struct {
	SessionName string    `json:"session_name"`
	Date        time.Time `json:"date"`
	Exercises   []struct {
		ExerciseName string                `json:"exercise_name"`
		Sets         []models.PerformedSet `json:"sets"`
	} `json:"exercises"`
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var req logSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now().UTC()
	}

	sessionID := uuid.New()
	rows := sessionRows(req, sessionID, s.userID)
	if len(rows) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session has no sets"})
		return
	}

	inserted, err := s.db.InsertSessionSets(r.Context(), rows)
	if err != nil {
		s.log.Error("log session error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":    sessionID,
		"sets_inserted": inserted,
	})
}

// sessionRows flattens a logged session into insertable rows, all scoped
// to the given user.
func sessionRows(req logSessionRequest, sessionID uuid.UUID, userID int) []models.SessionSetRow {
	var rows []models.SessionSetRow
	for _, ex := range req.Exercises {
		for i, set := range ex.Sets {
			rows = append(rows, models.SessionSetRow{
				SessionID:    sessionID,
				UserID:       userID,
				SessionName:  req.SessionName,
				SessionDate:  req.Date,
				ExerciseName: ex.ExerciseName,
				SetNumber:    i + 1,
				WeightKg:     set.WeightKg,
				Reps:         set.Reps,
				RPE:          set.RPE,
				IsCompleted:  set.IsCompleted,
			})
		}
	}
	return rows
}

// planRequest carries today's readiness and names the template to plan.
// Inline slots may replace the stored template for one-off sessions.
type planRequest struct {
	Template     string               `json:"template,omitempty"`
	Slots        []models.ExerciseSlot `json:"slots,omitempty"`
	Readiness    models.Readiness      `json:"readiness"`
	StartWeights map[string]float64    `json:"start_weights,omitempty"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	slots := req.Slots
	if len(slots) == 0 {
		if req.Template == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "template or slots required"})
			return
		}
		var err error
		slots, err = s.db.GetTemplateSlots(r.Context(), s.userID, req.Template)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if len(slots) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown template: " + req.Template})
			return
		}
	}

	names := make([]string, 0, len(slots))
	for _, slot := range slots {
		names = append(names, slot.ExerciseName)
	}
	snap, err := s.buildSnapshot(r, names)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	snap.Slots = slots
	snap.Readiness = req.Readiness
	snap.StartWeights = req.StartWeights

	writeJSON(w, http.StatusOK, s.planner.Plan(snap))
}

func (s *Server) handleCheckStall(w http.ResponseWriter, r *http.Request) {
	exercise := chi.URLParam(r, "exercise")

	snap, err := s.buildSnapshot(r, []string{exercise})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.planner.CheckStall(snap, exercise))
}

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	exercise := chi.URLParam(r, "exercise")
	if _, known := s.catalog.Get(exercise); !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise: " + exercise})
		return
	}

	snap, err := s.buildSnapshot(r, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	decision, ok := s.planner.FindSubstitute(snap, exercise)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"substitute_found": false,
			"exercise":         exercise,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"substitute_found": true,
		"decision":         decision,
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight parameter required"})
		return
	}
	reps, err := strconv.Atoi(r.URL.Query().Get("reps"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps parameter required"})
		return
	}

	formula := r.URL.Query().Get("formula")
	var e1rm float64
	switch formula {
	case "", "epley":
		formula = "epley"
		e1rm = strength.Estimate1RM(weight, reps)
	case "brzycki":
		e1rm = strength.Estimate1RMBrzycki(weight, reps)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown formula: " + formula})
		return
	}
	if e1rm == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight and reps must be positive"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"weight_kg":     weight,
		"reps":          reps,
		"formula":       formula,
		"estimated_1rm": e1rm,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	exercise := chi.URLParam(r, "exercise")

	limit := historyWindow
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	records, err := s.db.ExerciseHistory(r.Context(), s.userID, exercise, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	names := s.catalog.Names()
	exercises := make([]models.Exercise, 0, len(names))
	for _, n := range names {
		if ex, ok := s.catalog.Get(n); ok {
			exercises = append(exercises, ex)
		}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleLoggedExercises(w http.ResponseWriter, r *http.Request) {
	names, err := s.db.ListExercises(r.Context(), s.userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// buildSnapshot loads the lifter's profile and per-exercise history.
// History is fetched for the named exercises plus their catalog
// alternatives, since a substitution redirects the plan to the
// substitute's own history.
func (s *Server) buildSnapshot(r *http.Request, exercises []string) (planner.Snapshot, error) {
	ctx := r.Context()

	equipment, err := s.db.GetEquipment(ctx, s.userID)
	if err != nil {
		return planner.Snapshot{}, err
	}
	painFlags, err := s.db.ActivePainFlags(ctx, s.userID)
	if err != nil {
		return planner.Snapshot{}, err
	}

	history := make(map[string][]models.SessionRecord)
	seen := make(map[string]bool)
	var fetch func(name string) error
	fetch = func(name string) error {
		if seen[name] {
			return nil
		}
		seen[name] = true
		records, err := s.db.ExerciseHistory(ctx, s.userID, name, historyWindow)
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
		for _, alt := range s.catalog.Alternatives(name) {
			if err := fetch(alt); err != nil {
				return planner.Snapshot{}, err
			}
		}
	}

	return planner.Snapshot{
		History:   history,
		Equipment: equipment,
		PainFlags: painFlags,
		Inventory: s.inventory,
		Now:       time.Now().UTC(),
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
