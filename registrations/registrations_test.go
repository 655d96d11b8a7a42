package registrations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/globals"
	"eventhorizon/models"
	"eventhorizon/storage/memstore"
)

func seedUser(t *testing.T, s *memstore.MemStore, id, name, role string) {
	t.Helper()
	err := s.CreateUser(context.Background(), &models.User{
		UserID: id,
		Name:   name,
		Email:  id + "@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedEvent(t *testing.T, s *memstore.MemStore, id string, capacity int) {
	t.Helper()
	err := s.CreateEvent(context.Background(), &models.Event{
		EventID:            id,
		Title:              "Launch Party",
		Capacity:           capacity,
		OrganizerID:        "org1",
		IsRegistrationOpen: true,
		CreatedAt:          time.Now(),
	})
	if err != nil {
		t.Fatalf("seed event %s: %v", id, err)
	}
}

func asUser(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, userID)
	return r.WithContext(ctx)
}

func doRegister(t *testing.T, h *Handler, eventID, userID string, body string) (*httptest.ResponseRecorder, models.Registration) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID+"/registrations", bytes.NewBufferString(body))
	req = asUser(req, userID)
	rec := httptest.NewRecorder()
	h.Register(rec, req, httprouter.Params{{Key: "eventid", Value: eventID}})

	var reg models.Registration
	if rec.Code == http.StatusCreated {
		if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
			t.Fatalf("decode registration: %v", err)
		}
	}
	return rec, reg
}

func TestRegisterCapacityOneThenWaitlist(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "org1", "Organizer", models.RoleOrganizer)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	seedUser(t, s, "u2", "Bob", models.RoleAttendee)
	seedEvent(t, s, "e1", 1)

	rec1, reg1 := doRegister(t, h, "e1", "u1", `{}`)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first register = %d: %s", rec1.Code, rec1.Body.String())
	}
	if reg1.Status != models.StatusPending {
		t.Fatalf("first status = %s, want PENDING", reg1.Status)
	}

	rec2, reg2 := doRegister(t, h, "e1", "u2", `{}`)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("second register = %d: %s", rec2.Code, rec2.Body.String())
	}
	if reg2.Status != models.StatusWaitlisted {
		t.Fatalf("second status = %s, want WAITLISTED", reg2.Status)
	}

	// cancelling the seat holder promotes the waitlisted entry
	req := httptest.NewRequest(http.MethodDelete, "/api/registrations/"+reg1.RegistrationID, nil)
	req = asUser(req, "u1")
	rec := httptest.NewRecorder()
	h.Cancel(rec, req, httprouter.Params{{Key: "id", Value: reg1.RegistrationID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel = %d: %s", rec.Code, rec.Body.String())
	}

	promoted, err := s.RegistrationByID(context.Background(), reg2.RegistrationID)
	if err != nil {
		t.Fatalf("fetch promoted: %v", err)
	}
	if promoted.Status != models.StatusPending {
		t.Fatalf("promoted status = %s, want PENDING", promoted.Status)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "org1", "Organizer", models.RoleOrganizer)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	seedEvent(t, s, "e1", 10)

	if rec, _ := doRegister(t, h, "e1", "u1", `{}`); rec.Code != http.StatusCreated {
		t.Fatalf("first register = %d", rec.Code)
	}
	if rec, _ := doRegister(t, h, "e1", "u1", `{}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d, want 409", rec.Code)
	}
}

func TestRegisterRequiresAnswersToRequiredQuestions(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "org1", "Organizer", models.RoleOrganizer)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	err := s.CreateEvent(context.Background(), &models.Event{
		EventID:            "e1",
		Title:              "Workshop",
		Capacity:           5,
		OrganizerID:        "org1",
		IsRegistrationOpen: true,
		CustomQuestions: []models.CustomQuestion{
			{QuestionID: "q1", Question: "Experience level?", Type: models.QuestionText, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	if rec, _ := doRegister(t, h, "e1", "u1", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("register without answer = %d, want 400", rec.Code)
	}
	rec, reg := doRegister(t, h, "e1", "u1", `{"answers":{"q1":"beginner"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register with answer = %d: %s", rec.Code, rec.Body.String())
	}
	if reg.Answers["q1"] != "beginner" {
		t.Fatalf("answer lost: %v", reg.Answers)
	}
}

func TestRegisterClosedEvent(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	err := s.CreateEvent(context.Background(), &models.Event{
		EventID:     "e1",
		Title:       "Closed",
		Capacity:    5,
		OrganizerID: "org1",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	if rec, _ := doRegister(t, h, "e1", "u1", `{}`); rec.Code != http.StatusForbidden {
		t.Fatalf("register on closed event = %d, want 403", rec.Code)
	}
}

func TestTeamCreateAndJoin(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "org1", "Organizer", models.RoleOrganizer)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	seedUser(t, s, "u2", "Bob", models.RoleAttendee)
	seedUser(t, s, "u3", "Cara", models.RoleAttendee)
	err := s.CreateEvent(context.Background(), &models.Event{
		EventID:            "e1",
		Title:              "Hackathon",
		Capacity:           10,
		OrganizerID:        "org1",
		IsRegistrationOpen: true,
		ParticipationMode:  models.ParticipationTeam,
		MaxTeamSize:        2,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	rec, leader := doRegister(t, h, "e1", "u1", `{"participation_type":"team","team_name":"Gophers"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("leader register = %d: %s", rec.Code, rec.Body.String())
	}
	if !leader.IsTeamLeader || leader.TeamID == "" {
		t.Fatalf("leader flags wrong: %+v", leader)
	}

	team, err := s.TeamByID(context.Background(), leader.TeamID)
	if err != nil {
		t.Fatalf("fetch team: %v", err)
	}
	if team.InviteCode == "" {
		t.Fatal("team has no invite code")
	}

	rec2, member := doRegister(t, h, "e1", "u2",
		`{"participation_type":"team","invite_code":"`+team.InviteCode+`"}`)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("member register = %d: %s", rec2.Code, rec2.Body.String())
	}
	if member.TeamID != leader.TeamID || member.IsTeamLeader {
		t.Fatalf("member flags wrong: %+v", member)
	}

	// team is full at MaxTeamSize=2
	rec3, _ := doRegister(t, h, "e1", "u3",
		`{"participation_type":"team","invite_code":"`+team.InviteCode+`"}`)
	if rec3.Code != http.StatusConflict {
		t.Fatalf("full team join = %d, want 409", rec3.Code)
	}
}

func TestTeamJoinBadInviteCode(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	err := s.CreateEvent(context.Background(), &models.Event{
		EventID:            "e1",
		Title:              "Hackathon",
		Capacity:           10,
		OrganizerID:        "org1",
		IsRegistrationOpen: true,
		ParticipationMode:  models.ParticipationTeam,
		MaxTeamSize:        4,
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	rec, _ := doRegister(t, h, "e1", "u1", `{"participation_type":"team","invite_code":"NOPE1234"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("bad invite code = %d, want 404", rec.Code)
	}
}

func TestSetStatusAndAttendanceGate(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "org1", "Organizer", models.RoleOrganizer)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	seedEvent(t, s, "e1", 5)

	_, reg := doRegister(t, h, "e1", "u1", `{}`)

	// attendance before approval must fail and leave the flag unset
	attReq := httptest.NewRequest(http.MethodPut, "/api/registrations/"+reg.RegistrationID+"/attendance", nil)
	attReq = asUser(attReq, "org1")
	attRec := httptest.NewRecorder()
	h.MarkAttendance(attRec, attReq, httprouter.Params{{Key: "id", Value: reg.RegistrationID}})
	if attRec.Code != http.StatusConflict {
		t.Fatalf("attendance on PENDING = %d, want 409", attRec.Code)
	}
	got, _ := s.RegistrationByID(context.Background(), reg.RegistrationID)
	if got.Attended {
		t.Fatal("attended flag set despite rejection")
	}

	// approve
	stReq := httptest.NewRequest(http.MethodPut, "/api/registrations/"+reg.RegistrationID+"/status",
		bytes.NewBufferString(`{"status":"APPROVED"}`))
	stReq = asUser(stReq, "org1")
	stRec := httptest.NewRecorder()
	h.SetStatus(stRec, stReq, httprouter.Params{{Key: "id", Value: reg.RegistrationID}})
	if stRec.Code != http.StatusOK {
		t.Fatalf("approve = %d: %s", stRec.Code, stRec.Body.String())
	}

	// attendance now succeeds and is idempotent
	for i := 0; i < 2; i++ {
		attReq = httptest.NewRequest(http.MethodPut, "/api/registrations/"+reg.RegistrationID+"/attendance", nil)
		attReq = asUser(attReq, "org1")
		attRec = httptest.NewRecorder()
		h.MarkAttendance(attRec, attReq, httprouter.Params{{Key: "id", Value: reg.RegistrationID}})
		if attRec.Code != http.StatusOK {
			t.Fatalf("attendance attempt %d = %d", i, attRec.Code)
		}
	}
	got, _ = s.RegistrationByID(context.Background(), reg.RegistrationID)
	if !got.Attended || got.AttendanceTime == nil {
		t.Fatalf("attendance not recorded: %+v", got)
	}
}

func TestSetStatusCannotTouchWaitlisted(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "org1", "Organizer", models.RoleOrganizer)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	seedUser(t, s, "u2", "Bob", models.RoleAttendee)
	seedEvent(t, s, "e1", 1)

	doRegister(t, h, "e1", "u1", `{}`)
	_, waitlisted := doRegister(t, h, "e1", "u2", `{}`)

	stReq := httptest.NewRequest(http.MethodPut, "/api/registrations/"+waitlisted.RegistrationID+"/status",
		bytes.NewBufferString(`{"status":"APPROVED"}`))
	stReq = asUser(stReq, "org1")
	stRec := httptest.NewRecorder()
	h.SetStatus(stRec, stReq, httprouter.Params{{Key: "id", Value: waitlisted.RegistrationID}})
	if stRec.Code != http.StatusConflict {
		t.Fatalf("approve WAITLISTED = %d, want 409", stRec.Code)
	}
}

func TestRejectFreesSeatWithoutPromotion(t *testing.T) {
	s := memstore.New()
	h := NewHandler(s)
	seedUser(t, s, "org1", "Organizer", models.RoleOrganizer)
	seedUser(t, s, "u1", "Alice", models.RoleAttendee)
	seedUser(t, s, "u2", "Bob", models.RoleAttendee)
	seedEvent(t, s, "e1", 1)

	_, reg1 := doRegister(t, h, "e1", "u1", `{}`)
	_, reg2 := doRegister(t, h, "e1", "u2", `{}`)

	stReq := httptest.NewRequest(http.MethodPut, "/api/registrations/"+reg1.RegistrationID+"/status",
		bytes.NewBufferString(`{"status":"REJECTED"}`))
	stReq = asUser(stReq, "org1")
	stRec := httptest.NewRecorder()
	h.SetStatus(stRec, stReq, httprouter.Params{{Key: "id", Value: reg1.RegistrationID}})
	if stRec.Code != http.StatusOK {
		t.Fatalf("reject = %d: %s", stRec.Code, stRec.Body.String())
	}

	event, _ := s.EventByID(context.Background(), "e1")
	if event.ActiveCount != 0 {
		t.Fatalf("ActiveCount = %d, want 0 after rejection", event.ActiveCount)
	}
	still, _ := s.RegistrationByID(context.Background(), reg2.RegistrationID)
	if still.Status != models.StatusWaitlisted {
		t.Fatalf("waitlisted peer moved to %s on rejection", still.Status)
	}
}
