package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"eventhorizon/globals"
	"eventhorizon/middleware"
	"eventhorizon/models"
	"eventhorizon/storage/memstore"
)

func wsToken(t *testing.T, userID string) string {
	t.Helper()
	claims := &middleware.Claims{
		Username: "Ann",
		UserID:   userID,
		Role:     models.RoleAttendee,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestServeWSReplaysHistoryInOrder(t *testing.T) {
	s := memstore.New()
	if err := s.CreateEvent(context.Background(), &models.Event{EventID: "e1", Title: "Meetup", Capacity: 10, OrganizerID: "org1"}); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	for i := 0; i < 3; i++ {
		msg := &models.Message{
			MessageID:  fmt.Sprintf("m%d", i),
			EventID:    "e1",
			SenderID:   "u1",
			SenderName: "Ann",
			Text:       fmt.Sprintf("hello %d", i),
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := s.CreateMessage(context.Background(), msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	h := NewHandler(s, hub)
	router := httprouter.New()
	router.GET("/ws/events/:eventid", h.ServeWS(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events/e1?token=" + wsToken(t, "u1")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 3; i++ {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read history frame %d: %v", i, err)
		}
		var env struct {
			Type    string         `json:"type"`
			Payload models.Message `json:"payload"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode frame %d: %v", i, err)
		}
		if env.Type != "message" {
			t.Fatalf("frame %d type = %q, want message", i, env.Type)
		}
		if want := fmt.Sprintf("hello %d", i); env.Payload.Text != want {
			t.Fatalf("frame %d text = %q, want %q", i, env.Payload.Text, want)
		}
	}
}

func TestServeWSRejectsBadToken(t *testing.T) {
	s := memstore.New()
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	h := NewHandler(s, hub)
	router := httprouter.New()
	router.GET("/ws/events/:eventid", h.ServeWS(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events/e1?token=garbage"
	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("dial succeeded with a bad token")
	} else if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("handshake status = %v, want 401", resp)
	}
}
