package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu          sync.Mutex
	lanes       map[string][]domain.Inquiry
	departments []string
	modes       []domain.SortMode
	released    []string
	recovered   int
	claimErr    error
}

func (q *fakeQueue) ClaimNext(_ context.Context, mode domain.SortMode, department string) (*domain.Inquiry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modes = append(q.modes, mode)
	if q.claimErr != nil {
		return nil, q.claimErr
	}
	pending := q.lanes[department]
	if len(pending) == 0 {
		return nil, nil
	}
	head := pending[0]
	q.lanes[department] = pending[1:]
	return &head, nil
}

func (q *fakeQueue) Release(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.released = append(q.released, id)
	return nil
}

func (q *fakeQueue) RecoverAll(context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.recovered++
	return 0, nil
}

func (q *fakeQueue) GetDistinctQueuedDepartments(context.Context) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.departments...), nil
}

type fakeAssigner struct {
	mu       sync.Mutex
	err      error
	assigned []string
}

func (a *fakeAssigner) Assign(_ context.Context, inquiry domain.Inquiry) (domain.Assignment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return domain.Assignment{}, a.err
	}
	a.assigned = append(a.assigned, inquiry.ID)
	return domain.Assignment{InquiryID: inquiry.ID, AgentID: "agent-1"}, nil
}

type fixedMode domain.SortMode

func (m fixedMode) SortMode(context.Context) domain.SortMode {
	return domain.SortMode(m)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.QueueEvent
}

func (p *fakePublisher) Publish(_ context.Context, event domain.QueueEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) types() []domain.QueueEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.QueueEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestPool(q *fakeQueue, a *fakeAssigner, pub *fakePublisher, recoverOnStart bool) *WorkerPool {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewWorkerPool(q, a, fixedMode(domain.SortModePriority), pub, config.Queue{
		WorkerCount:    2,
		PollInterval:   5 * time.Millisecond,
		RecoverOnStart: recoverOnStart,
	}, logger)
}

func inquiry(id, department string) domain.Inquiry {
	inq := domain.Inquiry{ID: id, RoomID: "room-" + id, Status: domain.InquiryStatusQueued}
	if department != "" {
		inq.Department = &department
	}
	return inq
}

func TestDispatchOnceVisitsEveryLane(t *testing.T) {
	q := &fakeQueue{
		departments: []string{"sales"},
		lanes: map[string][]domain.Inquiry{
			"sales": {inquiry("S1", "sales")},
			"":      {inquiry("P1", "")},
		},
	}
	a := &fakeAssigner{}
	pub := &fakePublisher{}
	pool := newTestPool(q, a, pub, false)

	assigned, err := pool.dispatchOnce(context.Background(), "w/0")
	require.NoError(t, err)
	assert.Equal(t, 2, assigned)
	assert.Equal(t, []string{"S1", "P1"}, a.assigned)
	assert.Equal(t, []domain.SortMode{domain.SortModePriority, domain.SortModePriority}, q.modes)
	assert.Equal(t, []domain.QueueEventType{
		domain.QueueEventClaimed, domain.QueueEventTaken,
		domain.QueueEventClaimed, domain.QueueEventTaken,
	}, pub.types())
	assert.Equal(t, "agent-1", pub.events[1].AgentID)
	assert.Equal(t, "sales", pub.events[0].Department)
}

func TestDispatchOnceReleasesOnFailedHandOff(t *testing.T) {
	q := &fakeQueue{lanes: map[string][]domain.Inquiry{"": {inquiry("P1", "")}}}
	a := &fakeAssigner{err: constant.ErrNoAgentAvailable}
	pub := &fakePublisher{}
	pool := newTestPool(q, a, pub, false)

	assigned, err := pool.dispatchOnce(context.Background(), "w/0")
	require.NoError(t, err)
	assert.Equal(t, 0, assigned)
	assert.Equal(t, []string{"P1"}, q.released)
	assert.Equal(t, []domain.QueueEventType{domain.QueueEventClaimed, domain.QueueEventReleased}, pub.types())
}

func TestDispatchOnceStopsOnStoreError(t *testing.T) {
	q := &fakeQueue{claimErr: constant.ErrUnavailable, lanes: map[string][]domain.Inquiry{}}
	pool := newTestPool(q, &fakeAssigner{}, &fakePublisher{}, false)

	_, err := pool.dispatchOnce(context.Background(), "w/0")
	assert.ErrorIs(t, err, constant.ErrUnavailable)
}

func TestWorkerPoolDrainsQueue(t *testing.T) {
	q := &fakeQueue{lanes: map[string][]domain.Inquiry{
		"": {inquiry("A", ""), inquiry("B", ""), inquiry("C", "")},
	}}
	a := &fakeAssigner{}
	pool := newTestPool(q, a, &fakePublisher{}, true)

	pool.Start(context.Background())
	assert.Eventually(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return len(a.assigned) == 3
	}, time.Second, 5*time.Millisecond)
	pool.Stop()

	assert.ElementsMatch(t, []string{"A", "B", "C"}, a.assigned)
	assert.Equal(t, 1, q.recovered)
}

func TestWorkerPoolStopsOnCancel(t *testing.T) {
	q := &fakeQueue{lanes: map[string][]domain.Inquiry{}}
	pool := newTestPool(q, &fakeAssigner{}, &fakePublisher{}, false)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker pool did not stop")
	}
	assert.Zero(t, q.recovered)
}
