package domain

import "time"

type QueueEventType string

const (
	QueueEventClaimed   QueueEventType = "claimed"
	QueueEventTaken     QueueEventType = "taken"
	QueueEventReleased  QueueEventType = "released"
	QueueEventRecovered QueueEventType = "recovered"
	QueueEventQueued    QueueEventType = "queued"
	QueueEventRemoved   QueueEventType = "removed"
)

// QueueEvent is published on every lease and status transition the service
// performs.
type QueueEvent struct {
	ID         string         `json:"id"`
	Type       QueueEventType `json:"type"`
	InquiryID  string         `json:"inquiry_id"`
	RoomID     string         `json:"rid"`
	Department string         `json:"department"`
	WorkerID   string         `json:"worker_id"`
	AgentID    string         `json:"agent_id"`
	SortMode   SortMode       `json:"sort_mode"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type RoomEventType string

const (
	RoomEventCreated RoomEventType = "room.created"
	RoomEventMessage RoomEventType = "room.message"
	RoomEventRemoved RoomEventType = "room.removed"
)

// RoomEvent is consumed from the chat-room subsystem.
type RoomEvent struct {
	Type       RoomEventType `json:"type"`
	RoomID     string        `json:"rid"`
	Name       string        `json:"name"`
	Department string        `json:"department"`
	Source     string        `json:"source"`
	Visitor    Visitor       `json:"v"`
	Message    *Message      `json:"message,omitempty"`
	Ts         time.Time     `json:"ts"`
}

// Assignment is the result of handing an inquiry to an agent.
type Assignment struct {
	InquiryID string
	AgentID   string
}
