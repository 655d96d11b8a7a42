package messages

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"eventhorizon/middleware"
	"eventhorizon/models"
	"eventhorizon/utils"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// wsEnvelope wraps everything the hub pushes so clients can tell chat
// messages apart from change notifications.
type wsEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS upgrades the connection and subscribes the client to the event's
// room. The token comes from the query string since browsers cannot set
// headers on websocket dials.
func (h *Handler) ServeWS(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		eventID := ps.ByName("eventid")

		claims, err := middleware.ValidateRawToken(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if _, err := h.Store.EventByID(r.Context(), eventID); err != nil {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   eventID,
			UserID: claims.UserID,
		}

		// queue recent history before the client joins the room, so nothing
		// else can close Send while the replay is written
		if history, err := h.Store.MessagesByEvent(context.Background(), eventID); err != nil {
			log.Println("history:", err)
		} else {
			start := 0
			if len(history) > 30 {
				start = len(history) - 30
			}
			for _, m := range history[start:] {
				if data, err := json.Marshal(wsEnvelope{Type: "message", Payload: m}); err == nil {
					client.Send <- data
				}
			}
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub, h, claims)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub, h *Handler, claims *middleware.Claims) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &in); err != nil || in.Text == "" {
			continue
		}

		msg := &models.Message{
			MessageID:  "m" + utils.GenerateID(14),
			EventID:    c.Room,
			SenderID:   c.UserID,
			SenderName: claims.Username,
			Text:       in.Text,
			CreatedAt:  time.Now().UTC(),
		}
		if err := h.Store.CreateMessage(context.Background(), msg); err != nil {
			log.Printf("Failed to persist message for %s: %v", c.Room, err)
			continue
		}
		if data, err := json.Marshal(wsEnvelope{Type: "message", Payload: msg}); err == nil {
			hub.BroadcastRoom(c.Room, data)
		}
	}
}
