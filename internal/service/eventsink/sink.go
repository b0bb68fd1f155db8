package eventsink

import (
	"context"
	"time"

	"arvan/inquiry-queue/internal/domain"
)

// Run writes events from in to the event log in batches until in is closed.
// A batch is flushed when it is full, on every flush interval and once more
// after in is drained.
func (s *eventSink) Run(ctx context.Context, writerID int, in <-chan domain.QueueEvent) {
	batch := make([]domain.QueueEvent, 0, s.batchSize)
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		// buffered events must land even while shutting down
		insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.insertTimeout)
		defer cancel()

		if err := s.eventRepository.InsertQueueEvents(insertCtx, batch); err != nil {
			s.logger.WithContext(ctx).Errorf("writer %d: failed to insert %d events: %v", writerID, len(batch), err)
		} else {
			s.logger.WithContext(ctx).Debugf("writer %d: flushed %d events to ClickHouse", writerID, len(batch))
		}
		batch = make([]domain.QueueEvent, 0, s.batchSize)
	}

	for {
		select {
		case event, ok := <-in:
			if !ok {
				flush()
				s.logger.WithContext(ctx).Infof("writer %d: input drained, shutting down", writerID)
				return
			}
			batch = append(batch, event)
			if len(batch) >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
