// Package registrations implements the registration lifecycle: attendees
// register (solo or via a team), organizers approve or reject, waitlisted
// entries are promoted oldest-first when a seat frees up.
package registrations

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/models"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

type Handler struct {
	Store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{Store: store}
}

// canManage reports whether the requester is the event's organizer or a
// listed collaborator.
func (h *Handler) canManage(r *http.Request, event *models.Event) bool {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return false
	}
	if event.OrganizerID == userID {
		return true
	}
	if len(event.CollaboratorEmails) == 0 {
		return false
	}
	user, err := h.Store.UserByID(r.Context(), userID)
	if err != nil {
		return false
	}
	for _, email := range event.CollaboratorEmails {
		if email == user.Email {
			return true
		}
	}
	return false
}

// GetEventRegistrations lists all registrations for an event (organizer view).
func (h *Handler) GetEventRegistrations(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	event, err := h.Store.EventByID(r.Context(), eventID)
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if !h.canManage(r, event) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	regs, err := h.Store.RegistrationsByEvent(r.Context(), eventID)
	if err != nil {
		http.Error(w, "Failed to fetch registrations", http.StatusInternalServerError)
		return
	}
	if regs == nil {
		regs = []models.Registration{}
	}
	utils.RespondWithJSON(w, http.StatusOK, regs)
}

// GetMyRegistrations lists the requester's registrations across events.
func (h *Handler) GetMyRegistrations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	regs, err := h.Store.RegistrationsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch registrations", http.StatusInternalServerError)
		return
	}
	if regs == nil {
		regs = []models.Registration{}
	}
	utils.RespondWithJSON(w, http.StatusOK, regs)
}

// GetRegistration returns a single registration. Visible to its owner and to
// anyone who can manage the event.
func (h *Handler) GetRegistration(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reg, err := h.Store.RegistrationByID(r.Context(), ps.ByName("id"))
	if err != nil {
		http.Error(w, "Registration not found", http.StatusNotFound)
		return
	}

	if reg.ParticipantID != utils.GetUserIDFromRequest(r) {
		event, err := h.Store.EventByID(r.Context(), reg.EventID)
		if err != nil || !h.canManage(r, event) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, reg)
}
