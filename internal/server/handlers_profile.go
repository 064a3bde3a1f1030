package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftcoach/internal/models"
)

func (s *Server) handleGetEquipment(w http.ResponseWriter, r *http.Request) {
	set, err := s.db.GetEquipment(r.Context(), s.userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": set.Tokens()})
}

func (s *Server) handlePutEquipment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tokens []string `json:"tokens"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.db.ReplaceEquipment(r.Context(), s.userID, req.Tokens); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": req.Tokens})
}

func (s *Server) handleGetPainFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := s.db.ActivePainFlags(r.Context(), s.userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

func (s *Server) handlePostPainFlag(w http.ResponseWriter, r *http.Request) {
	var flag models.PainFlag
	if err := json.NewDecoder(r.Body).Decode(&flag); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if flag.BodyPart == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body_part required"})
		return
	}
	if err := s.db.UpsertPainFlag(r.Context(), s.userID, flag); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, flag)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	names, err := s.db.ListTemplates(r.Context(), s.userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": names})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	slots, err := s.db.GetTemplateSlots(r.Context(), s.userID, name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(slots) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown template: " + name})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "slots": slots})
}

func (s *Server) handlePutTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req struct {
		Slots []models.ExerciseSlot `json:"slots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Slots) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "template needs at least one slot"})
		return
	}
	for _, slot := range req.Slots {
		if _, ok := s.catalog.Get(slot.ExerciseName); !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown exercise: " + slot.ExerciseName})
			return
		}
	}
	if err := s.db.ReplaceTemplate(r.Context(), s.userID, name, req.Slots); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "slots": req.Slots})
}
