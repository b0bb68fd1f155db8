package entity

import (
	"time"

	"arvan/inquiry-queue/internal/domain"
)

// QueueEventLog is the ClickHouse row of the inquiry event history.
type QueueEventLog struct {
	ID         string
	Type       string
	InquiryID  string
	RID        string `gorm:"column:rid"`
	Department string
	WorkerID   string
	AgentID    string
	SortMode   string
	OccurredAt time.Time
}

func (QueueEventLog) TableName() string {
	return "inquiry_events"
}

func QueueEventLogFromDomain(e domain.QueueEvent) QueueEventLog {
	return QueueEventLog{
		ID:         e.ID,
		Type:       string(e.Type),
		InquiryID:  e.InquiryID,
		RID:        e.RoomID,
		Department: e.Department,
		WorkerID:   e.WorkerID,
		AgentID:    e.AgentID,
		SortMode:   string(e.SortMode),
		OccurredAt: e.OccurredAt.UTC(),
	}
}
