package domain

import "time"

// Lease is the pair of lease fields written in one statement. Nil values
// clear the column.
type Lease struct {
	Locked   *bool
	LockedAt *time.Time
}

// ClaimFilter selects claimable queued inquiries.
type ClaimFilter struct {
	Department  string
	StaleBefore time.Time
}

type PositionQuery struct {
	InquiryID  string
	Department string
	SortMode   SortMode
}

// QueuePosition is one ranked row of the queue. Position is 0-based.
type QueuePosition struct {
	ID         string        `json:"_id"`
	RoomID     string        `json:"rid"`
	Name       string        `json:"name"`
	Ts         time.Time     `json:"ts"`
	Status     InquiryStatus `json:"status"`
	Department *string       `json:"department,omitempty"`
	Position   int64         `json:"position"`
}
