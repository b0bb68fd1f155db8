package domain

import "time"

type InquiryStatus string

const (
	InquiryStatusVerifying InquiryStatus = "verifying"
	InquiryStatusQueued    InquiryStatus = "queued"
	InquiryStatusTaken     InquiryStatus = "taken"
	InquiryStatusReady     InquiryStatus = "ready"
	InquiryStatusOpen      InquiryStatus = "open"
	InquiryStatusClosed    InquiryStatus = "closed"
)

type Visitor struct {
	ID       string `json:"_id"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

type Message struct {
	ID       string    `json:"_id"`
	Msg      string    `json:"msg"`
	UserID   string    `json:"u_id"`
	Username string    `json:"u_username"`
	Ts       time.Time `json:"ts"`
}

// Inquiry is a queued request for an agent to join a room.
type Inquiry struct {
	ID          string        `json:"_id"`
	RoomID      string        `json:"rid"`
	Name        string        `json:"name"`
	Message     string        `json:"message"`
	Status      InquiryStatus `json:"status"`
	Department  *string       `json:"department,omitempty"`
	Ts          time.Time     `json:"ts"`
	Source      string        `json:"source"`
	Visitor     Visitor       `json:"v"`
	LastMessage *Message      `json:"lastMessage,omitempty"`

	Locked   *bool      `json:"locked,omitempty"`
	LockedAt *time.Time `json:"lockedAt,omitempty"`

	PriorityID                *string `json:"priorityId,omitempty"`
	PriorityWeight            int     `json:"priorityWeight"`
	SlaID                     *string `json:"slaId,omitempty"`
	EstimatedWaitingTimeQueue int     `json:"estimatedWaitingTimeQueue"`

	UpdatedAt time.Time `json:"_updatedAt"`
}

func (i Inquiry) DepartmentID() string {
	if i.Department == nil {
		return ""
	}
	return *i.Department
}

// Priority is the extension attribute consumed by the Priority sort mode.
type Priority struct {
	ID     string `json:"_id"`
	Weight int    `json:"sortItem"`
}

// SLA is the extension attribute consumed by the SLAs sort mode.
type SLA struct {
	ID                        string `json:"slaId"`
	EstimatedWaitingTimeQueue int    `json:"estimatedWaitingTimeQueue"`
}
