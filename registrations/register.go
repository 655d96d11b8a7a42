package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/globals"
	"eventhorizon/models"
	"eventhorizon/mq"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

type registerRequest struct {
	ParticipationType string            `json:"participation_type"`
	Answers           map[string]string `json:"answers"`
	TeamName          string            `json:"team_name"`
	InviteCode        string            `json:"invite_code"`
}

// Register creates a registration for the requester. Solo registrations and
// team creation/joining all land here; a full event puts the entry on the
// waitlist instead of rejecting it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	event, err := h.Store.EventByID(ctx, ps.ByName("eventid"))
	if err != nil {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if !event.IsRegistrationOpen {
		http.Error(w, "Registration is closed for this event", http.StatusForbidden)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.ParticipationType == "" {
		req.ParticipationType = models.ParticipationIndividual
	}

	switch req.ParticipationType {
	case models.ParticipationIndividual:
		if !event.AllowsIndividual() {
			http.Error(w, "This event only accepts team registrations", http.StatusBadRequest)
			return
		}
	case models.ParticipationTeam:
		if !event.AllowsTeams() {
			http.Error(w, "This event does not accept team registrations", http.StatusBadRequest)
			return
		}
		if req.TeamName == "" && req.InviteCode == "" {
			http.Error(w, "Team registration needs a team name or an invite code", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "Unknown participation type", http.StatusBadRequest)
		return
	}

	for _, q := range event.CustomQuestions {
		if q.Required && req.Answers[q.QuestionID] == "" {
			http.Error(w, "Missing answer for required question: "+q.Question, http.StatusBadRequest)
			return
		}
	}

	if _, err := h.Store.ActiveRegistration(ctx, event.EventID, userID); err == nil {
		http.Error(w, "Already registered for this event", http.StatusConflict)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Failed to check registration", http.StatusInternalServerError)
		return
	}

	user, err := h.Store.UserByID(ctx, userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	reg := &models.Registration{
		RegistrationID:    "r" + utils.GenerateID(14),
		EventID:           event.EventID,
		ParticipantID:     userID,
		ParticipantName:   user.Name,
		ParticipantEmail:  user.Email,
		Answers:           req.Answers,
		ParticipationType: req.ParticipationType,
		RegisteredAt:      time.Now().UTC(),
	}

	if req.ParticipationType == models.ParticipationTeam {
		if req.InviteCode != "" {
			team, err := h.joinTeam(r, event, user, req.InviteCode)
			if err != nil {
				respondTeamError(w, err)
				return
			}
			reg.TeamID = team.TeamID
			reg.TeamName = team.Name
		} else {
			team, err := h.createTeam(ctx, event, user, req.TeamName)
			if err != nil {
				log.Printf("Failed to create team for event %s: %v", event.EventID, err)
				http.Error(w, "Failed to create team", http.StatusInternalServerError)
				return
			}
			reg.TeamID = team.TeamID
			reg.TeamName = team.Name
			reg.IsTeamLeader = true
		}
	}

	// Seat check and increment are one conditional update, so concurrent
	// registrations can never push the active count past capacity.
	switch err := h.Store.ReserveSeat(ctx, event.EventID); {
	case err == nil:
		reg.Status = models.StatusPending
	case errors.Is(err, storage.ErrCapacity):
		reg.Status = models.StatusWaitlisted
	default:
		http.Error(w, "Failed to reserve seat", http.StatusInternalServerError)
		return
	}

	if err := h.Store.CreateRegistration(ctx, reg); err != nil {
		if reg.HoldsSeat() {
			if rerr := h.Store.ReleaseSeat(ctx, event.EventID); rerr != nil {
				log.Printf("Failed to release seat for %s after create failure: %v", event.EventID, rerr)
			}
		}
		http.Error(w, "Failed to create registration", http.StatusInternalServerError)
		return
	}

	go mq.Emit(globals.Ctx, "registration-created", models.Index{
		EntityType: "registration",
		EntityId:   reg.RegistrationID,
		ItemType:   "event",
		ItemId:     event.EventID,
		UserId:     event.OrganizerID,
		Message:    user.Name + " registered for " + event.Title,
	})

	utils.RespondWithJSON(w, http.StatusCreated, reg)
}

func (h *Handler) createTeam(ctx context.Context, event *models.Event, user *models.User, name string) (*models.Team, error) {
	team := &models.Team{
		TeamID:    "t" + utils.GenerateID(12),
		Name:      name,
		EventID:   event.EventID,
		LeaderID:  user.UserID,
		CreatedAt: time.Now().UTC(),
		Members: []models.TeamMember{{
			UserID:   user.UserID,
			UserName: user.Name,
			Email:    user.Email,
		}},
	}

	// Invite codes are unique per store; regenerate on the rare collision.
	for attempt := 0; attempt < 5; attempt++ {
		team.InviteCode = utils.GenerateInviteCode(8)
		err := h.Store.CreateTeam(ctx, team)
		if err == nil {
			return team, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, storage.ErrDuplicate
}

func (h *Handler) joinTeam(r *http.Request, event *models.Event, user *models.User, code string) (*models.Team, error) {
	ctx := r.Context()

	team, err := h.Store.TeamByInviteCode(ctx, code)
	if err != nil {
		return nil, errInviteNotFound
	}
	if team.EventID != event.EventID {
		return nil, errInviteNotFound
	}
	if team.HasMember(user.UserID) {
		return nil, errAlreadyMember
	}

	member := models.TeamMember{UserID: user.UserID, UserName: user.Name, Email: user.Email}
	if err := h.Store.AddTeamMember(ctx, team.TeamID, member, event.MaxTeamSize); err != nil {
		if errors.Is(err, storage.ErrTeamFull) {
			return nil, errTeamFull
		}
		return nil, err
	}
	team.Members = append(team.Members, member)
	return team, nil
}

var (
	errInviteNotFound = errors.New("invalid invite code")
	errAlreadyMember  = errors.New("already a member of this team")
	errTeamFull       = errors.New("team is already full")
)

func respondTeamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errInviteNotFound):
		http.Error(w, "Invalid invite code", http.StatusNotFound)
	case errors.Is(err, errAlreadyMember):
		http.Error(w, "Already a member of this team", http.StatusConflict)
	case errors.Is(err, errTeamFull):
		http.Error(w, "Team is already full", http.StatusConflict)
	default:
		http.Error(w, "Failed to join team", http.StatusInternalServerError)
	}
}
