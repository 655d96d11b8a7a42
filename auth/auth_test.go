package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhorizon/middleware"
	"eventhorizon/models"
	"eventhorizon/storage/memstore"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	h := NewHandler(memstore.New())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","password":"s3cret","role":"organizer"}`))
	h.Register(rec, req, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewBufferString(`{"email":"alice@example.com","password":"s3cret"}`))
	h.Login(rec, req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Data["token"] == "" || resp.Data["refreshToken"] == "" {
		t.Fatalf("missing tokens: %v", resp.Data)
	}
	if resp.Data["role"] != models.RoleOrganizer {
		t.Fatalf("role = %s, want organizer", resp.Data["role"])
	}

	claims, err := middleware.ValidateRawToken(resp.Data["token"])
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.UserID != resp.Data["userid"] || claims.Role != models.RoleOrganizer {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := NewHandler(memstore.New())

	body := `{"name":"Alice","email":"alice@example.com","password":"s3cret"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	h.Register(rec, req, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	h.Register(rec, req, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d, want 409", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := NewHandler(memstore.New())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		bytes.NewBufferString(`{"name":"Alice","email":"alice@example.com","password":"s3cret"}`))
	h.Register(rec, req, nil)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`))
	h.Login(rec, req, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with wrong password = %d, want 401", rec.Code)
	}
}

func TestRegisterDefaultsToAttendee(t *testing.T) {
	store := memstore.New()
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		bytes.NewBufferString(`{"name":"Bob","email":"bob@example.com","password":"pw","role":"admin"}`))
	h.Register(rec, req, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d", rec.Code)
	}

	user, err := store.UserByEmail(req.Context(), "bob@example.com")
	if err != nil {
		t.Fatalf("fetch user: %v", err)
	}
	if user.Role != models.RoleAttendee {
		t.Fatalf("role = %s, want attendee", user.Role)
	}
}
