package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types - Client → Server
const (
	EventTypeDrugSubscribe   = "drug.subscribe"
	EventTypeDrugUnsubscribe = "drug.unsubscribe"
	EventTypePing            = "ping"
)

// Event types - Server → Client
const (
	EventTypeDiscussionNew     = "discussion.new"
	EventTypeDiscussionDeleted = "discussion.deleted"
	EventTypePong              = "pong"
	EventTypeError             = "error"
)

// Event is the envelope for all WebSocket messages on the discussion feed.
type Event struct {
	Type      string          `json:"type"`
	DrugID    *uuid.UUID      `json:"drug_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

type DrugPayload struct {
	DrugID uuid.UUID `json:"drug_id"`
}

type DiscussionDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, drugID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		DrugID:    drugID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
