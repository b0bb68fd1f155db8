package provider

import (
	"context"

	"arvan/inquiry-queue/internal/domain"
)

// Assigner hands a claimed inquiry to an agent. On error the inquiry stays
// queued and the caller releases its lease.
type Assigner interface {
	Assign(ctx context.Context, inquiry domain.Inquiry) (domain.Assignment, error)
}

type inquiryTaker interface {
	MarkTaken(ctx context.Context, id string) (int64, error)
}
