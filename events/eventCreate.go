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

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	requestingUserID := utils.GetUserIDFromRequest(r)
	if requestingUserID == "" {
		http.Error(w, "Invalid user", http.StatusBadRequest)
		return
	}

	if event.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if event.Capacity <= 0 {
		http.Error(w, "Capacity must be positive", http.StatusBadRequest)
		return
	}
	if event.LocationType == "" {
		event.LocationType = models.LocationOffline
	}
	if event.AllowsTeams() && event.MaxTeamSize <= 0 {
		http.Error(w, "Max team size is required for team events", http.StatusBadRequest)
		return
	}

	organizer, err := h.Store.UserByID(r.Context(), requestingUserID)
	if err != nil {
		http.Error(w, "Invalid user", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	event.EventID = "e" + utils.GenerateID(14)
	event.OrganizerID = requestingUserID
	event.OrganizerName = organizer.Name
	event.IsRegistrationOpen = true
	event.ActiveCount = 0
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Start = event.Start.UTC()
	event.End = event.End.UTC()
	if event.CustomQuestions == nil {
		event.CustomQuestions = []models.CustomQuestion{}
	}
	for i := range event.CustomQuestions {
		if event.CustomQuestions[i].QuestionID == "" {
			event.CustomQuestions[i].QuestionID = "q" + utils.GenerateID(8)
		}
	}

	if err := h.Store.CreateEvent(r.Context(), &event); err != nil {
		log.Printf("Failed to create event: %v", err)
		http.Error(w, "Failed to create event", http.StatusInternalServerError)
		return
	}

	go mq.Emit(globals.Ctx, "event-created", models.Index{
		EntityType: "event", EntityId: event.EventID,
	})

	utils.RespondWithJSON(w, http.StatusCreated, event)
}
