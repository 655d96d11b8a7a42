// Package mq carries side-channel events (registration status changes,
// check-ins) from handlers to the notification worker. With Redis configured
// it publishes on a pubsub channel; otherwise it falls back to an in-process
// buffered channel so notifications still flow on a single node.
package mq

import (
	"context"
	"encoding/json"
	"log"

	"eventhorizon/models"
	"eventhorizon/rdx"
)

const channel = "eventhorizon-events"

var local = make(chan models.Index, 256)

// Emit publishes an entity-change event for the notification worker.
func Emit(ctx context.Context, eventName string, content models.Index) {
	content.Method = eventName

	if rdx.Conn != nil {
		data, err := json.Marshal(content)
		if err != nil {
			log.Printf("[Emit] Failed to marshal event content: %v", err)
			return
		}
		if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
			log.Printf("[Emit] Failed to publish event to Redis: %v", err)
		}
		return
	}

	select {
	case local <- content:
	default:
		log.Printf("[Emit] Local event buffer full, dropping %s for %s", eventName, content.EntityId)
	}
}
