package provider

import (
	"context"
	"testing"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaker struct {
	taken    []string
	affected int64
	err      error
}

func (f *fakeTaker) MarkTaken(_ context.Context, id string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.taken = append(f.taken, id)
	return f.affected, nil
}

func TestStubAssignerRoundRobin(t *testing.T) {
	taker := &fakeTaker{affected: 1}
	assigner := NewStubAssigner([]string{"agent-1", "agent-2"}, taker)

	var agents []string
	for _, id := range []string{"A", "B", "C"} {
		got, err := assigner.Assign(context.Background(), domain.Inquiry{ID: id})
		require.NoError(t, err)
		assert.Equal(t, id, got.InquiryID)
		agents = append(agents, got.AgentID)
	}

	assert.Equal(t, []string{"agent-1", "agent-2", "agent-1"}, agents)
	assert.Equal(t, []string{"A", "B", "C"}, taker.taken)
}

func TestStubAssignerNoAgents(t *testing.T) {
	taker := &fakeTaker{affected: 1}
	_, err := NewStubAssigner(nil, taker).Assign(context.Background(), domain.Inquiry{ID: "A"})
	assert.ErrorIs(t, err, constant.ErrNoAgentAvailable)
	assert.Empty(t, taker.taken)
}

func TestStubAssignerInquiryGone(t *testing.T) {
	_, err := NewStubAssigner([]string{"agent-1"}, &fakeTaker{}).Assign(context.Background(), domain.Inquiry{ID: "A"})
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestStubAssignerStoreDown(t *testing.T) {
	_, err := NewStubAssigner([]string{"agent-1"}, &fakeTaker{err: constant.ErrUnavailable}).Assign(context.Background(), domain.Inquiry{ID: "A"})
	assert.ErrorIs(t, err, constant.ErrUnavailable)
}
