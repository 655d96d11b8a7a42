// Package reviews lets attendees rate events they attended.
package reviews

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/globals"
	"eventhorizon/models"
	"eventhorizon/mq"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

type Handler struct {
	Store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reviews, err := h.Store.ReviewsByEvent(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	utils.RespondWithJSON(w, http.StatusOK, reviews)
}

// CreateReview accepts a rating from someone who attended the event.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	eventID := ps.ByName("eventid")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	event, err := h.Store.EventByID(ctx, eventID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	reg, err := h.Store.ActiveRegistration(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondWithError(w, http.StatusForbidden, "Only attendees can review an event")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check registration")
		return
	}
	if !reg.Attended {
		utils.RespondWithError(w, http.StatusForbidden, "Only checked-in attendees can review an event")
		return
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	review := &models.Review{
		ReviewID:  "rv" + utils.GenerateID(12),
		EventID:   eventID,
		UserID:    userID,
		UserName:  reg.ParticipantName,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateReview(ctx, review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save review")
		return
	}

	go mq.Emit(globals.Ctx, "review-created", models.Index{
		EntityType: "review",
		EntityId:   review.ReviewID,
		ItemType:   "event",
		ItemId:     eventID,
		UserId:     event.OrganizerID,
		Message:    review.UserName + " reviewed " + event.Title,
	})

	utils.RespondWithJSON(w, http.StatusCreated, review)
}
