package tickets

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/models"
	"eventhorizon/utils"
)

// ScanTicket verifies a scanned QR payload and checks the participant in.
// An unreadable or unknown ticket never mutates anything.
func (h *Handler) ScanTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	eventID := ps.ByName("eventid")

	event, err := h.Store.EventByID(ctx, eventID)
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if event.OrganizerID != utils.GetUserIDFromRequest(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var input struct {
		Payload string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var payload qrPayload
	if err := json.Unmarshal([]byte(input.Payload), &payload); err != nil || payload.ID == "" {
		http.Error(w, "Invalid Ticket", http.StatusBadRequest)
		return
	}

	reg, err := h.Store.RegistrationByID(ctx, payload.ID)
	if err != nil {
		http.Error(w, "Invalid Ticket", http.StatusNotFound)
		return
	}
	if reg.EventID != eventID || payload.EventID != eventID {
		http.Error(w, "Ticket is for a different event", http.StatusConflict)
		return
	}
	if reg.Status != models.StatusApproved {
		http.Error(w, "Registration is not approved", http.StatusConflict)
		return
	}
	if reg.Attended {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success":            true,
			"already_checked_in": true,
			"registration":       reg,
		})
		return
	}

	now := time.Now().UTC()
	if err := h.Store.SetAttendance(ctx, reg.RegistrationID, now); err != nil {
		http.Error(w, "Failed to mark attendance", http.StatusInternalServerError)
		return
	}
	reg.Attended = true
	reg.AttendanceTime = &now

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":            true,
		"already_checked_in": false,
		"registration":       reg,
	})
}
