package messages

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/models"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

type Handler struct {
	Store storage.Store
	Hub   *Hub
}

func NewHandler(store storage.Store, hub *Hub) *Handler {
	return &Handler{Store: store, Hub: hub}
}

// GetMessages lists an event's messages oldest first.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	if _, err := h.Store.EventByID(r.Context(), eventID); err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	msgs, err := h.Store.MessagesByEvent(r.Context(), eventID)
	if err != nil {
		http.Error(w, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	utils.RespondWithJSON(w, http.StatusOK, msgs)
}

// PostMessage persists a message over plain HTTP and fans it out to
// websocket subscribers.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := h.Store.EventByID(r.Context(), eventID); err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		http.Error(w, "Message text is required", http.StatusBadRequest)
		return
	}

	user, err := h.Store.UserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	msg := &models.Message{
		MessageID:  "m" + utils.GenerateID(14),
		EventID:    eventID,
		SenderID:   userID,
		SenderName: user.Name,
		Text:       input.Text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Store.CreateMessage(r.Context(), msg); err != nil {
		http.Error(w, "Failed to save message", http.StatusInternalServerError)
		return
	}

	if h.Hub != nil {
		if data, err := json.Marshal(wsEnvelope{Type: "message", Payload: msg}); err == nil {
			h.Hub.BroadcastRoom(eventID, data)
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, msg)
}
