package events

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/globals"
	"eventhorizon/models"
	"eventhorizon/mq"
	"eventhorizon/utils"
)

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var input models.Event
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if input.Title != "" {
		event.Title = input.Title
	}
	if input.Description != "" {
		event.Description = input.Description
	}
	if !input.Start.IsZero() {
		event.Start = input.Start.UTC()
	}
	if !input.End.IsZero() {
		event.End = input.End.UTC()
	}
	if input.Location != "" {
		event.Location = input.Location
	}
	if input.LocationType != "" {
		event.LocationType = input.LocationType
	}
	if input.Category != "" {
		event.Category = input.Category
	}
	if input.Capacity > 0 {
		event.Capacity = input.Capacity
	}
	if input.CustomQuestions != nil {
		for i := range input.CustomQuestions {
			if input.CustomQuestions[i].QuestionID == "" {
				input.CustomQuestions[i].QuestionID = "q" + utils.GenerateID(8)
			}
		}
		event.CustomQuestions = input.CustomQuestions
	}
	if input.CollaboratorEmails != nil {
		event.CollaboratorEmails = input.CollaboratorEmails
	}
	if input.ParticipationMode != "" {
		event.ParticipationMode = input.ParticipationMode
	}
	if input.MaxTeamSize > 0 {
		event.MaxTeamSize = input.MaxTeamSize
	}
	event.UpdatedAt = time.Now().UTC()

	if err := h.Store.UpdateEvent(r.Context(), event); err != nil {
		log.Printf("Failed to update event %s: %v", eventID, err)
		http.Error(w, "Failed to update event", http.StatusInternalServerError)
		return
	}

	go mq.Emit(globals.Ctx, "event-updated", models.Index{
		EntityType: "event", EntityId: event.EventID,
	})

	utils.RespondWithJSON(w, http.StatusOK, event)
}

// ToggleRegistration opens or closes registration for an event.
func (h *Handler) ToggleRegistration(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var input struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	event.IsRegistrationOpen = input.Open
	event.UpdatedAt = time.Now().UTC()
	if err := h.Store.UpdateEvent(r.Context(), event); err != nil {
		http.Error(w, "Failed to update event", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":              true,
		"is_registration_open": event.IsRegistrationOpen,
	})
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	event, err := h.Store.EventByID(r.Context(), eventID)
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if event.OrganizerID != utils.GetUserIDFromRequest(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.Store.DeleteEvent(r.Context(), eventID); err != nil {
		http.Error(w, "Failed to delete event", http.StatusInternalServerError)
		return
	}

	go mq.Emit(globals.Ctx, "event-deleted", models.Index{
		EntityType: "event", EntityId: eventID,
	})

	utils.SendResponse(w, http.StatusOK, nil, "Event deleted", nil)
}
