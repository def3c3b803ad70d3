package wssvc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwalimu/ratiba/core/post"
	"github.com/mwalimu/ratiba/core/schedule"
)

// Message types
const (
	TypePostMoved   = "post.moved"
	TypePostUpdated = "post.updated"
)

type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type PostMovedPayload struct {
	ID      string     `json:"id"`
	Type    post.Type  `json:"type"`
	Title   string     `json:"title"`
	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`
	DueAt   *time.Time `json:"due_at,omitempty"`
}

// EventBroadcaster adapts the hub to the schedule service's Broadcaster
// interface.
type EventBroadcaster struct {
	hub *Hub
}

var _ schedule.Broadcaster = (*EventBroadcaster)(nil)

func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

func (b *EventBroadcaster) PostMoved(p post.Post) {
	b.send(TypePostMoved, PostMovedPayload{
		ID:      p.ID,
		Type:    p.Type,
		Title:   p.Title,
		StartAt: p.StartAt,
		EndAt:   p.EndAt,
		DueAt:   p.DueAt,
	})
}

func (b *EventBroadcaster) PostUpdated(p post.Post) {
	b.send(TypePostUpdated, PostMovedPayload{
		ID:      p.ID,
		Type:    p.Type,
		Title:   p.Title,
		StartAt: p.StartAt,
		EndAt:   p.EndAt,
		DueAt:   p.DueAt,
	})
}

func (b *EventBroadcaster) send(msgType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: msgType, Timestamp: time.Now().UTC(), Payload: payload})
	if err != nil {
		b.hub.logger.Error(fmt.Sprintf("encoding %s message: %v", msgType, err), err)
		return
	}
	b.hub.Broadcast(data)
}
