package mq

import (
	"context"
	"encoding/json"
	"log"

	"eventra/rdx"
)

// Index represents a domain event published for downstream consumers
// (search indexing, notifications).
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
}

const channel = "domain-events"

// Emit publishes a domain event to redis. Failures are logged and dropped;
// emission never blocks the request path.
func Emit(eventName string, content Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}
	if err := rdx.Conn.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", eventName, err)
	}
}
