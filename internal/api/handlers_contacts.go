package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/havenmind/haven-server/internal/api/respond"
	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/services"
)

type ContactHandler struct {
	svc *services.WellnessService
}

func NewContactHandler(svc *services.WellnessService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// AddContact POST /api/users/{userId}/contacts
func (h *ContactHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Relationship string `json:"relationship,omitempty"`
		Priority     int    `json:"priority,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	c := &model.Contact{
		UserID:       mux.Vars(r)["userId"],
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
		Priority:     req.Priority,
	}
	out, err := h.svc.AddContact(r.Context(), c)
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

// ListContacts GET /api/users/{userId}/contacts
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListContacts(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Contact{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"contacts": out, "count": len(out)})
}

// RemoveContact DELETE /api/users/{userId}/contacts/{contactId}
func (h *ContactHandler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	if err := h.svc.RemoveContact(r.Context(), v["userId"], v["contactId"]); err != nil {
		if model.IsNotFoundError(err) {
			respond.WriteNotFound(w, "contact not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
