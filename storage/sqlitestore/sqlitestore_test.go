package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"eventhorizon/models"
	"eventhorizon/storage"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestEventRoundTripWithQuestions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	event := &models.Event{
		EventID:            "e1",
		Title:              "Gopher Meetup",
		Description:        "Talks and pizza",
		Start:              time.Now().Truncate(time.Second),
		End:                time.Now().Add(2 * time.Hour).Truncate(time.Second),
		Location:           "Community Hall",
		LocationType:       models.LocationOffline,
		Capacity:           40,
		OrganizerID:        "org1",
		IsRegistrationOpen: true,
		CustomQuestions: []models.CustomQuestion{
			{QuestionID: "q1", Question: "T-shirt size?", Type: models.QuestionSelect, Required: true, Options: []string{"S", "M", "L"}},
			{QuestionID: "q2", Question: "Allergies?", Type: models.QuestionText},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	got, err := s.EventByID(ctx, "e1")
	if err != nil {
		t.Fatalf("EventByID: %v", err)
	}
	if got.Title != event.Title || got.Capacity != 40 || !got.IsRegistrationOpen {
		t.Fatalf("event fields lost: %+v", got)
	}
	if len(got.CustomQuestions) != 2 {
		t.Fatalf("questions = %d, want 2", len(got.CustomQuestions))
	}
	if got.CustomQuestions[0].QuestionID != "q1" || !got.CustomQuestions[0].Required {
		t.Fatalf("question order or flags lost: %+v", got.CustomQuestions)
	}
	if len(got.CustomQuestions[0].Options) != 3 {
		t.Fatalf("options lost: %v", got.CustomQuestions[0].Options)
	}
}

func TestReserveSeatConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	event := &models.Event{EventID: "e1", Title: "Small Room", Capacity: 2, OrganizerID: "org1"}
	if err := s.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.ReserveSeat(ctx, "e1"); err != nil {
			t.Fatalf("ReserveSeat %d: %v", i, err)
		}
	}
	if err := s.ReserveSeat(ctx, "e1"); !errors.Is(err, storage.ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}

	if err := s.ReleaseSeat(ctx, "e1"); err != nil {
		t.Fatalf("ReleaseSeat: %v", err)
	}
	if err := s.ReserveSeat(ctx, "e1"); err != nil {
		t.Fatalf("ReserveSeat after release: %v", err)
	}

	got, _ := s.EventByID(ctx, "e1")
	if got.ActiveCount != 2 {
		t.Fatalf("ActiveCount = %d, want 2", got.ActiveCount)
	}
}

func TestWaitlistOrderingSurvivesPersistence(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.CreateEvent(ctx, &models.Event{EventID: "e1", Title: "E", Capacity: 1, OrganizerID: "o"}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	base := time.Now()
	order := []struct {
		id string
		at time.Time
	}{
		{"r-late", base.Add(3 * time.Second)},
		{"r-first", base},
		{"r-mid", base.Add(time.Second)},
	}
	for _, o := range order {
		reg := &models.Registration{
			RegistrationID: o.id,
			EventID:        "e1",
			ParticipantID:  "u-" + o.id,
			Status:         models.StatusWaitlisted,
			RegisteredAt:   o.at,
		}
		if err := s.CreateRegistration(ctx, reg); err != nil {
			t.Fatalf("CreateRegistration %s: %v", o.id, err)
		}
	}

	next, err := s.OldestWaitlisted(ctx, "e1")
	if err != nil {
		t.Fatalf("OldestWaitlisted: %v", err)
	}
	if next.RegistrationID != "r-first" {
		t.Fatalf("oldest = %s, want r-first", next.RegistrationID)
	}
}

func TestInviteCodeUniqueConstraint(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	t1 := &models.Team{TeamID: "t1", Name: "A", EventID: "e1", LeaderID: "u1", InviteCode: "DUPED123", CreatedAt: time.Now()}
	t2 := &models.Team{TeamID: "t2", Name: "B", EventID: "e1", LeaderID: "u2", InviteCode: "DUPED123", CreatedAt: time.Now()}
	if err := s.CreateTeam(ctx, t1); err != nil {
		t.Fatalf("CreateTeam t1: %v", err)
	}
	if err := s.CreateTeam(ctx, t2); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddTeamMemberSizeLimit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	team := &models.Team{
		TeamID:     "t1",
		Name:       "A",
		EventID:    "e1",
		LeaderID:   "u1",
		InviteCode: "CODE0001",
		Members:    []models.TeamMember{{UserID: "u1", UserName: "Leader"}},
		CreatedAt:  time.Now(),
	}
	if err := s.CreateTeam(ctx, team); err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}

	if err := s.AddTeamMember(ctx, "t1", models.TeamMember{UserID: "u2"}, 2); err != nil {
		t.Fatalf("AddTeamMember: %v", err)
	}
	if err := s.AddTeamMember(ctx, "t1", models.TeamMember{UserID: "u3"}, 2); !errors.Is(err, storage.ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull, got %v", err)
	}

	got, _ := s.TeamByID(ctx, "t1")
	if len(got.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(got.Members))
	}
}

func TestAttendanceRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.CreateEvent(ctx, &models.Event{EventID: "e1", Title: "E", Capacity: 5, OrganizerID: "o"}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	reg := &models.Registration{
		RegistrationID: "r1",
		EventID:        "e1",
		ParticipantID:  "u1",
		Status:         models.StatusApproved,
		RegisteredAt:   time.Now(),
		Answers:        map[string]string{"q1": "M"},
	}
	if err := s.CreateRegistration(ctx, reg); err != nil {
		t.Fatalf("CreateRegistration: %v", err)
	}

	at := time.Now().Truncate(time.Second)
	if err := s.SetAttendance(ctx, "r1", at); err != nil {
		t.Fatalf("SetAttendance: %v", err)
	}

	got, err := s.RegistrationByID(ctx, "r1")
	if err != nil {
		t.Fatalf("RegistrationByID: %v", err)
	}
	if !got.Attended || got.AttendanceTime == nil {
		t.Fatalf("attendance lost: %+v", got)
	}
	if got.Answers["q1"] != "M" {
		t.Fatalf("answers lost: %v", got.Answers)
	}
}
