package queue

import (
	"context"

	"arvan/inquiry-queue/internal/domain"
)

type inquiryStore interface {
	FindOneQueuedByRoomID(ctx context.Context, rid string) (domain.Inquiry, error)
	FindOneByRoomID(ctx context.Context, rid string) (domain.Inquiry, error)
	FindByID(ctx context.Context, id string) (domain.Inquiry, error)
	FindDistinctQueuedDepartments(ctx context.Context) ([]string, error)
	UpdateDepartment(ctx context.Context, id, department string) (domain.Inquiry, error)
	UpdateLastMessageByRoomID(ctx context.Context, rid string, message domain.Message) (int64, error)
	FindOneAndLock(ctx context.Context, filter domain.ClaimFilter, spec domain.SortSpec, lease domain.Lease) (domain.Inquiry, error)
	UpdateLease(ctx context.Context, id string, lease domain.Lease) (int64, error)
	ClearAllLeases(ctx context.Context) (int64, error)
	RankQueued(ctx context.Context, department, inquiryID string, spec domain.SortSpec) ([]domain.QueuePosition, error)
	DeleteByRoomID(ctx context.Context, rid string) (int64, error)
}

type priorityStore interface {
	SetPriorityByRoomID(ctx context.Context, rid string, priority domain.Priority) (int64, error)
	UnsetPriorityByRoomID(ctx context.Context, rid string) (int64, error)
	SetSlaByRoomID(ctx context.Context, rid string, sla domain.SLA) (int64, error)
	UnsetSlaByRoomIDs(ctx context.Context, rids []string) (int64, error)
}
