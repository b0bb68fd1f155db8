package provider

import (
	"context"
	"sync/atomic"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/pkg/errors"
)

// StubAssigner rotates through a fixed agent list. It stands in for the
// routing service that picks agents by availability and load.
type StubAssigner struct {
	agents []string
	next   atomic.Uint64
	store  inquiryTaker
}

func NewStubAssigner(agents []string, store inquiryTaker) *StubAssigner {
	return &StubAssigner{
		agents: agents,
		store:  store,
	}
}

func (s *StubAssigner) Assign(ctx context.Context, inquiry domain.Inquiry) (domain.Assignment, error) {
	if len(s.agents) == 0 {
		return domain.Assignment{}, constant.ErrNoAgentAvailable
	}
	agent := s.agents[(s.next.Add(1)-1)%uint64(len(s.agents))]

	affected, err := s.store.MarkTaken(ctx, inquiry.ID)
	if err != nil {
		return domain.Assignment{}, errors.Wrapf(err, "assign inquiry %s", inquiry.ID)
	}
	if affected == 0 {
		return domain.Assignment{}, errors.Wrapf(constant.ErrNotFound, "inquiry %s is no longer queued", inquiry.ID)
	}

	return domain.Assignment{InquiryID: inquiry.ID, AgentID: agent}, nil
}
