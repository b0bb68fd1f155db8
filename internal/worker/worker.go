package worker

import (
	"context"
	"fmt"
	"time"

	"arvan/inquiry-queue/internal/domain"
)

// worker polls the queue until ctx is cancelled. It sleeps for the poll
// interval when a full cycle handed nothing to an agent, so released
// inquiries are not spun on.
func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	workerID := fmt.Sprintf("%s/%d", p.instance, id)

	for {
		select {
		case <-ctx.Done():
			p.logger.Debugf("worker %s: context cancelled, exiting", workerID)
			return
		default:
		}

		assigned, err := p.dispatchOnce(ctx, workerID)
		if err != nil {
			p.logger.WithContext(ctx).Errorf("worker %s: dispatch cycle: %v", workerID, err)
		}
		if assigned > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.pollInterval):
		}
	}
}

// dispatchOnce tries one claim per department lane plus the lane that
// accepts any department, and returns how many inquiries reached an agent.
func (p *WorkerPool) dispatchOnce(ctx context.Context, workerID string) (int, error) {
	mode := p.settings.SortMode(ctx)

	departments, err := p.qm.GetDistinctQueuedDepartments(ctx)
	if err != nil {
		return 0, err
	}
	lanes := append(departments, "")

	assigned := 0
	for _, department := range lanes {
		if ctx.Err() != nil {
			return assigned, nil
		}

		inquiry, err := p.qm.ClaimNext(ctx, mode, department)
		if err != nil {
			return assigned, err
		}
		if inquiry == nil {
			continue
		}
		if p.handOff(ctx, workerID, mode, *inquiry) {
			assigned++
		}
	}
	return assigned, nil
}

func (p *WorkerPool) handOff(ctx context.Context, workerID string, mode domain.SortMode, inquiry domain.Inquiry) bool {
	event := domain.QueueEvent{
		InquiryID:  inquiry.ID,
		RoomID:     inquiry.RoomID,
		Department: inquiry.DepartmentID(),
		WorkerID:   workerID,
		SortMode:   mode,
	}
	p.publish(ctx, event, domain.QueueEventClaimed)

	assignment, err := p.assigner.Assign(ctx, inquiry)
	if err != nil {
		p.logger.WithContext(ctx).Warnf("worker %s: assign inquiry %s: %v", workerID, inquiry.ID, err)
		if err := p.qm.Release(ctx, inquiry.ID); err != nil {
			// the lease expires on its own
			p.logger.WithContext(ctx).Errorf("worker %s: release inquiry %s: %v", workerID, inquiry.ID, err)
			return false
		}
		p.publish(ctx, event, domain.QueueEventReleased)
		return false
	}

	event.AgentID = assignment.AgentID
	p.publish(ctx, event, domain.QueueEventTaken)
	return true
}

func (p *WorkerPool) publish(ctx context.Context, event domain.QueueEvent, eventType domain.QueueEventType) {
	event.Type = eventType
	event.OccurredAt = time.Now().UTC()
	p.publisher.Publish(ctx, event)
}
