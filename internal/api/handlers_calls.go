package api

import (
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/havenmind/haven-server/internal/api/respond"
	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
)

type CallHandler struct {
	records          store.CallRecords
	allowDestructive bool
}

func NewCallHandler(records store.CallRecords, allowDestructive bool) *CallHandler {
	return &CallHandler{records: records, allowDestructive: allowDestructive}
}

// ListCalls GET /api/users/{userId}/calls
func (h *CallHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	out, err := h.records.List(r.Context(), v["userId"])
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.CallRecord{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"calls": out, "count": len(out)})
}

// GetCall GET /api/users/{userId}/calls/{callId}
func (h *CallHandler) GetCall(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	out, err := h.records.Get(r.Context(), v["callId"])
	if err != nil {
		if model.IsNotFoundError(err) {
			respond.WriteNotFound(w, "call record not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	// Lookups are unscoped at the store level; ownership is enforced here
	// so a foreign id is indistinguishable from a missing one.
	if out.UserID != v["userId"] {
		respond.WriteNotFound(w, "call record not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteAllCalls DELETE /api/calls
// Wipes every user's records; only enabled in test environments.
func (h *CallHandler) DeleteAllCalls(w http.ResponseWriter, r *http.Request) {
	if !h.allowDestructive {
		respond.WriteForbidden(w, "destructive operations are disabled")
		return
	}
	if err := h.records.DeleteAll(r.Context()); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
