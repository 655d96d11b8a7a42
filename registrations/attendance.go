package registrations

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/models"
	"eventhorizon/utils"
)

// MarkAttendance checks a participant in manually. Only APPROVED
// registrations can be checked in; repeat calls are no-ops.
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()

	reg, err := h.Store.RegistrationByID(ctx, ps.ByName("id"))
	if err != nil {
		http.Error(w, "Registration not found", http.StatusNotFound)
		return
	}
	event, err := h.Store.EventByID(ctx, reg.EventID)
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if !h.canManage(r, event) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if reg.Status != models.StatusApproved {
		http.Error(w, "Only approved registrations can be checked in", http.StatusConflict)
		return
	}
	if reg.Attended {
		utils.RespondWithJSON(w, http.StatusOK, reg)
		return
	}

	now := time.Now().UTC()
	if err := h.Store.SetAttendance(ctx, reg.RegistrationID, now); err != nil {
		http.Error(w, "Failed to mark attendance", http.StatusInternalServerError)
		return
	}
	reg.Attended = true
	reg.AttendanceTime = &now
	utils.RespondWithJSON(w, http.StatusOK, reg)
}
