package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/havenmind/haven-server/internal/api/respond"
	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/services"
)

type WellnessHandler struct {
	svc *services.WellnessService
}

func NewWellnessHandler(svc *services.WellnessService) *WellnessHandler {
	return &WellnessHandler{svc: svc}
}

// RecordMood POST /api/users/{userId}/moods
func (h *WellnessHandler) RecordMood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mood      string `json:"mood"`
		Intensity int    `json:"intensity"`
		Note      string `json:"note,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	e := &model.MoodEntry{
		UserID:    mux.Vars(r)["userId"],
		Mood:      req.Mood,
		Intensity: req.Intensity,
		Note:      req.Note,
	}
	out, err := h.svc.RecordMood(r.Context(), e)
	if err != nil {
		if model.IsValidationError(err) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListMoods GET /api/users/{userId}/moods
func (h *WellnessHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListMoods(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.MoodEntry{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"moods": out, "count": len(out)})
}

// GetStats GET /api/users/{userId}/stats
func (h *WellnessHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Stats(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
