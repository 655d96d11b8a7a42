// Package notifications serves the per-user notification feed produced by
// the mq worker.
package notifications

import (
	"errors"
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

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notifs, err := h.Store.NotificationsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}
	if notifs == nil {
		notifs = []models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, notifs)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.Store.MarkNotificationRead(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update notification", http.StatusInternalServerError)
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "Notification marked read", nil)
}
