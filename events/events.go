package events

import (
	"log"
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

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	q := storage.EventQuery{
		Page:        opts.Page,
		Limit:       opts.Limit,
		Search:      opts.Search,
		Category:    opts.Category,
		OrganizerID: r.URL.Query().Get("organizer"),
	}

	events, err := h.Store.Events(r.Context(), q)
	if err != nil {
		log.Printf("Failed to list events: %v", err)
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.Store.EventByID(r.Context(), ps.ByName("eventid"))
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, event)
}

// canManage reports whether the requesting user owns the event or is listed
// as a collaborator.
func (h *Handler) canManage(r *http.Request, event *models.Event) bool {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return false
	}
	if event.OrganizerID == userID {
		return true
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
