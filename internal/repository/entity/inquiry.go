package entity

import (
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"
)

type Inquiry struct {
	ID         string `gorm:"primaryKey;size:64"`
	RID        string `gorm:"column:rid;size:64;not null;index:idx_livechat_inquiry_rid;uniqueIndex:idx_livechat_inquiry_queued_rid,where:status = 'queued'"`
	Name       string
	Message    string    `gorm:"type:text"`
	Status     string    `gorm:"size:16;not null;index:idx_livechat_inquiry_status_department,priority:1"`
	Department *string   `gorm:"size:64;index:idx_livechat_inquiry_status_department,priority:2"`
	Ts         time.Time `gorm:"column:ts;not null;index"`
	Source     string

	VisitorID       string
	VisitorToken    string
	VisitorUsername string

	LastMessage *domain.Message `gorm:"serializer:json;type:text"`

	Locked   *bool
	LockedAt *time.Time

	PriorityID                *string
	PriorityWeight            int `gorm:"not null"`
	SlaID                     *string
	EstimatedWaitingTimeQueue int `gorm:"not null"`

	UpdatedAt time.Time
}

func (Inquiry) TableName() string {
	return constant.InquiryTableName
}

func (i Inquiry) ToDomain() domain.Inquiry {
	return domain.Inquiry{
		ID:         i.ID,
		RoomID:     i.RID,
		Name:       i.Name,
		Message:    i.Message,
		Status:     domain.InquiryStatus(i.Status),
		Department: i.Department,
		Ts:         i.Ts.UTC(),
		Source:     i.Source,
		Visitor: domain.Visitor{
			ID:       i.VisitorID,
			Token:    i.VisitorToken,
			Username: i.VisitorUsername,
		},
		LastMessage:               i.LastMessage,
		Locked:                    i.Locked,
		LockedAt:                  utcPtr(i.LockedAt),
		PriorityID:                i.PriorityID,
		PriorityWeight:            i.PriorityWeight,
		SlaID:                     i.SlaID,
		EstimatedWaitingTimeQueue: i.EstimatedWaitingTimeQueue,
		UpdatedAt:                 i.UpdatedAt.UTC(),
	}
}

// InquiryFromDomain maps an inquiry to its row. Weight and waiting time
// only count while their priority or SLA id is set; otherwise the defaults
// that sort after every prioritized inquiry are stored.
func InquiryFromDomain(d domain.Inquiry) Inquiry {
	weight := d.PriorityWeight
	if d.PriorityID == nil {
		weight = constant.DefaultPriorityWeight
	}
	waiting := d.EstimatedWaitingTimeQueue
	if d.SlaID == nil {
		waiting = constant.DefaultEstimatedWaitingTimeQueue
	}

	var department *string
	if d.Department != nil && *d.Department != "" {
		dep := *d.Department
		department = &dep
	}

	return Inquiry{
		ID:                        d.ID,
		RID:                       d.RoomID,
		Name:                      d.Name,
		Message:                   d.Message,
		Status:                    string(d.Status),
		Department:                department,
		Ts:                        d.Ts.UTC().Truncate(time.Millisecond),
		Source:                    d.Source,
		VisitorID:                 d.Visitor.ID,
		VisitorToken:              d.Visitor.Token,
		VisitorUsername:           d.Visitor.Username,
		LastMessage:               d.LastMessage,
		Locked:                    d.Locked,
		LockedAt:                  utcPtr(d.LockedAt),
		PriorityID:                d.PriorityID,
		PriorityWeight:            weight,
		SlaID:                     d.SlaID,
		EstimatedWaitingTimeQueue: waiting,
	}
}

// RankedInquiry is one row of the ranking query.
type RankedInquiry struct {
	ID         string `gorm:"column:id"`
	RID        string `gorm:"column:rid"`
	Name       string
	Ts         time.Time `gorm:"column:ts"`
	Status     string
	Department *string
	Position   int64
}

func (r RankedInquiry) ToDomain() domain.QueuePosition {
	return domain.QueuePosition{
		ID:         r.ID,
		RoomID:     r.RID,
		Name:       r.Name,
		Ts:         r.Ts.UTC(),
		Status:     domain.InquiryStatus(r.Status),
		Department: r.Department,
		Position:   r.Position,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
