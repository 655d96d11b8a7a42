package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"eventhorizon/models"
	"eventhorizon/rdx"
	"eventhorizon/storage"
	"eventhorizon/utils"
)

// Broadcaster pushes serialized events to live websocket subscribers of a
// room. Rooms are keyed by event ID.
type Broadcaster interface {
	BroadcastRoom(room string, data []byte)
}

// StartNotificationWorker consumes emitted events, turns the ones a user
// cares about into Notification documents, and pushes every event to the
// hub so watching clients update without polling. Runs until ctx is
// cancelled. hub may be nil.
func StartNotificationWorker(ctx context.Context, store storage.Store, hub Broadcaster) {
	events := make(chan models.Index)

	if rdx.Conn != nil {
		sub := rdx.Conn.Subscribe(ctx, channel)
		ch := sub.Channel()
		go func() {
			defer sub.Close()
			for msg := range ch {
				var event models.Index
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("[NotificationWorker] Failed to parse event: %v", err)
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		go func() {
			for {
				select {
				case event := <-local:
					select {
					case events <- event:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	log.Println("[NotificationWorker] Listening for events...")
	for {
		select {
		case event := <-events:
			if err := handleEvent(ctx, store, event); err != nil {
				log.Printf("[NotificationWorker] %s failed: %v", event.Method, err)
			}
			if hub != nil && event.ItemId != "" {
				if data, err := json.Marshal(map[string]any{"type": "change", "payload": event}); err == nil {
					hub.BroadcastRoom(event.ItemId, data)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func handleEvent(ctx context.Context, store storage.Store, event models.Index) error {
	if event.UserId == "" || event.Message == "" {
		return nil
	}
	n := &models.Notification{
		NotificationID: "n" + utils.GenerateID(14),
		UserID:         event.UserId,
		EventID:        event.ItemId,
		Title:          event.Method,
		Body:           event.Message,
		CreatedAt:      time.Now().UTC(),
	}
	return store.CreateNotification(ctx, n)
}
