package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventhorizon/globals"
	"eventhorizon/models"
	"eventhorizon/storage/memstore"
)

func scanSetup(t *testing.T) (*Handler, *memstore.MemStore) {
	t.Helper()
	s := memstore.New()
	err := s.CreateEvent(context.Background(), &models.Event{
		EventID:     "e1",
		Title:       "Conference",
		Capacity:    100,
		OrganizerID: "org1",
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return NewHandler(s), s
}

func scan(t *testing.T, h *Handler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"payload": payload})
	req := httptest.NewRequest(http.MethodPost, "/api/events/e1/scan", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "org1"))
	rec := httptest.NewRecorder()
	h.ScanTicket(rec, req, httprouter.Params{{Key: "eventid", Value: "e1"}})
	return rec
}

func TestScanGarbagePayloadIsInvalidTicket(t *testing.T) {
	h, _ := scanSetup(t)
	rec := scan(t, h, "not json at all")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid Ticket") {
		t.Fatalf("body = %q, want Invalid Ticket", rec.Body.String())
	}
}

func TestScanMissingIDIsInvalidTicket(t *testing.T) {
	h, _ := scanSetup(t)
	rec := scan(t, h, `{"eventId":"e1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid Ticket") {
		t.Fatalf("body = %q, want Invalid Ticket", rec.Body.String())
	}
}

func TestScanUnknownIDIsInvalidTicketNoMutation(t *testing.T) {
	h, s := scanSetup(t)
	rec := scan(t, h, `{"id":"r-unknown","eventId":"e1"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid Ticket") {
		t.Fatalf("body = %q, want Invalid Ticket", rec.Body.String())
	}

	regs, _ := s.RegistrationsByEvent(context.Background(), "e1")
	if len(regs) != 0 {
		t.Fatalf("registrations mutated: %v", regs)
	}
}

func TestScanApprovedChecksInOnce(t *testing.T) {
	h, s := scanSetup(t)
	err := s.CreateRegistration(context.Background(), &models.Registration{
		RegistrationID: "r1",
		EventID:        "e1",
		ParticipantID:  "u1",
		Status:         models.StatusApproved,
		RegisteredAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	rec := scan(t, h, `{"id":"r1","eventId":"e1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first scan = %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		AlreadyCheckedIn bool `json:"already_checked_in"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.AlreadyCheckedIn {
		t.Fatal("first scan flagged as repeat")
	}

	rec = scan(t, h, `{"id":"r1","eventId":"e1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second scan = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.AlreadyCheckedIn {
		t.Fatal("second scan not flagged as repeat")
	}
}

func TestScanPendingRegistrationRefused(t *testing.T) {
	h, s := scanSetup(t)
	err := s.CreateRegistration(context.Background(), &models.Registration{
		RegistrationID: "r1",
		EventID:        "e1",
		ParticipantID:  "u1",
		Status:         models.StatusPending,
		RegisteredAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	rec := scan(t, h, `{"id":"r1","eventId":"e1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("scan on PENDING = %d, want 409", rec.Code)
	}
	reg, _ := s.RegistrationByID(context.Background(), "r1")
	if reg.Attended {
		t.Fatal("attended set for unapproved registration")
	}
}

func TestQRPayloadShape(t *testing.T) {
	reg := &models.Registration{RegistrationID: "r1", EventID: "e1"}
	data, err := encodeQRPayload(reg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["id"] != "r1" || decoded["eventId"] != "e1" {
		t.Fatalf("payload = %v", decoded)
	}
}
