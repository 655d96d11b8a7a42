package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/globals"
	"eventhorizon/models"
	"eventhorizon/mq"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

// SetStatus moves a registration between PENDING, APPROVED and REJECTED.
// WAITLISTED entries cannot be acted on directly; they leave the waitlist
// only through promotion when a seat frees up.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Status != models.StatusApproved && input.Status != models.StatusRejected {
		http.Error(w, "Status must be APPROVED or REJECTED", http.StatusBadRequest)
		return
	}
	if reg.Status == models.StatusWaitlisted {
		http.Error(w, "Waitlisted registrations cannot be approved or rejected directly", http.StatusConflict)
		return
	}
	if reg.Status == input.Status {
		utils.RespondWithJSON(w, http.StatusOK, reg)
		return
	}

	// Moving a rejected entry back in needs a seat; rejecting frees one.
	if !models.HoldsSeat(reg.Status) && models.HoldsSeat(input.Status) {
		if err := h.Store.ReserveSeat(ctx, event.EventID); err != nil {
			if errors.Is(err, storage.ErrCapacity) {
				http.Error(w, "Event is at capacity", http.StatusConflict)
				return
			}
			http.Error(w, "Failed to reserve seat", http.StatusInternalServerError)
			return
		}
	}

	if err := h.Store.SetRegistrationStatus(ctx, reg.RegistrationID, input.Status); err != nil {
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	if models.HoldsSeat(reg.Status) && !models.HoldsSeat(input.Status) {
		if err := h.Store.ReleaseSeat(ctx, event.EventID); err != nil {
			log.Printf("Failed to release seat for %s: %v", event.EventID, err)
		}
	}

	verb := "approved"
	if input.Status == models.StatusRejected {
		verb = "rejected"
	}
	go mq.Emit(globals.Ctx, "registration-"+verb, models.Index{
		EntityType: "registration",
		EntityId:   reg.RegistrationID,
		ItemType:   "event",
		ItemId:     event.EventID,
		UserId:     reg.ParticipantID,
		Message:    "Your registration for " + event.Title + " was " + verb,
	})

	reg.Status = input.Status
	utils.RespondWithJSON(w, http.StatusOK, reg)
}

// Cancel deletes the requester's own registration. If the entry held a seat,
// the seat is released and the oldest waitlisted registration is promoted.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	reg, err := h.Store.RegistrationByID(ctx, ps.ByName("id"))
	if err != nil {
		http.Error(w, "Registration not found", http.StatusNotFound)
		return
	}
	if reg.ParticipantID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.Store.DeleteRegistration(ctx, reg.RegistrationID); err != nil {
		http.Error(w, "Failed to cancel registration", http.StatusInternalServerError)
		return
	}

	if reg.TeamID != "" {
		if err := h.Store.RemoveTeamMember(ctx, reg.TeamID, userID); err != nil &&
			!errors.Is(err, storage.ErrNotFound) {
			log.Printf("Failed to remove %s from team %s: %v", userID, reg.TeamID, err)
		}
		if team, err := h.Store.TeamByID(ctx, reg.TeamID); err == nil && len(team.Members) == 0 {
			if err := h.Store.DeleteTeam(ctx, team.TeamID); err != nil {
				log.Printf("Failed to delete empty team %s: %v", team.TeamID, err)
			}
		}
	}

	if reg.HoldsSeat() {
		if err := h.Store.ReleaseSeat(ctx, reg.EventID); err != nil {
			log.Printf("Failed to release seat for %s: %v", reg.EventID, err)
		}
		h.promoteOldestWaitlisted(ctx, reg.EventID)
	}

	utils.SendResponse(w, http.StatusOK, nil, "Registration cancelled", nil)
}

// promoteOldestWaitlisted moves the earliest-registered waitlisted entry to
// PENDING, claiming a seat for it first. If another registration grabs the
// seat in between, the entry simply stays on the waitlist.
func (h *Handler) promoteOldestWaitlisted(ctx context.Context, eventID string) {
	next, err := h.Store.OldestWaitlisted(ctx, eventID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Failed to find waitlisted registration for %s: %v", eventID, err)
		}
		return
	}

	if err := h.Store.ReserveSeat(ctx, eventID); err != nil {
		if !errors.Is(err, storage.ErrCapacity) {
			log.Printf("Failed to reserve seat for promotion on %s: %v", eventID, err)
		}
		return
	}
	if err := h.Store.SetRegistrationStatus(ctx, next.RegistrationID, models.StatusPending); err != nil {
		log.Printf("Failed to promote registration %s: %v", next.RegistrationID, err)
		if rerr := h.Store.ReleaseSeat(ctx, eventID); rerr != nil {
			log.Printf("Failed to release seat after promotion failure on %s: %v", eventID, rerr)
		}
		return
	}

	event, err := h.Store.EventByID(ctx, eventID)
	title := eventID
	if err == nil {
		title = event.Title
	}
	go mq.Emit(globals.Ctx, "registration-promoted", models.Index{
		EntityType: "registration",
		EntityId:   next.RegistrationID,
		ItemType:   "event",
		ItemId:     eventID,
		UserId:     next.ParticipantID,
		Message:    "A seat opened up for " + title + "; your registration is now pending approval",
	})
}
