// Package teams exposes team lookup and management endpoints. Teams are
// created and joined through the registration flow; this package covers
// everything after that.
package teams

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

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	team, err := h.Store.TeamByID(r.Context(), ps.ByName("teamid"))
	if err != nil {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, team)
}

// PreviewByInviteCode resolves an invite code so a prospective member can see
// the team and event before registering.
func (h *Handler) PreviewByInviteCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	team, err := h.Store.TeamByInviteCode(r.Context(), ps.ByName("code"))
	if err != nil {
		http.Error(w, "Invalid invite code", http.StatusNotFound)
		return
	}

	event, err := h.Store.EventByID(r.Context(), team.EventID)
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"team":          team,
		"event_id":      event.EventID,
		"event_title":   event.Title,
		"max_team_size": event.MaxTeamSize,
		"slots_left":    event.MaxTeamSize - len(team.Members),
	})
}

func (h *Handler) GetEventTeams(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	teams, err := h.Store.TeamsByEvent(r.Context(), ps.ByName("eventid"))
	if err != nil {
		http.Error(w, "Failed to fetch teams", http.StatusInternalServerError)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	utils.RespondWithJSON(w, http.StatusOK, teams)
}

// RemoveMember lets the team leader drop a member. The member's registration
// stays; they can cancel it themselves or re-join another team.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	team, err := h.Store.TeamByID(ctx, ps.ByName("teamid"))
	if err != nil {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}
	if team.LeaderID != userID {
		http.Error(w, "Only the team leader can remove members", http.StatusForbidden)
		return
	}

	memberID := ps.ByName("userid")
	if memberID == team.LeaderID {
		http.Error(w, "The leader cannot be removed from the team", http.StatusBadRequest)
		return
	}
	if err := h.Store.RemoveTeamMember(ctx, team.TeamID, memberID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Member not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to remove member", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Member removed", nil)
}
