package event

import (
	"context"
	"encoding/json"
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// Publish hands a queue event to the producer workers without blocking the
// caller. When the buffer is full the event goes straight to the DLQ.
func (es *eventService) Publish(ctx context.Context, event domain.QueueEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	b, err := json.Marshal(event)
	if err != nil {
		es.logger.WithContext(ctx).Errorf("event publisher: marshal %s event: %v", event.Type, err)
		return
	}
	kmsg := domain.KafkaMessage{
		Key:     event.InquiryID,
		Payload: b,
		Topic:   constant.TopicInquiryEvents,
	}

	es.mu.RLock()
	defer es.mu.RUnlock()
	if es.closed {
		es.toDLQ(ctx, kmsg)
		return
	}

	select {
	case es.workChan <- kmsg:
	default:
		es.toDLQ(ctx, kmsg)
	}
}

// Start runs count producer workers until Close.
func (es *eventService) Start(count int) {
	for i := 0; i < count; i++ {
		es.wg.Add(1)
		go func(workerID int) {
			defer es.wg.Done()
			es.ProduceMessages(workerID)
		}(i)
	}
}

// Close stops accepting events and waits for the workers to drain the
// buffer.
func (es *eventService) Close() {
	es.mu.Lock()
	if !es.closed {
		es.closed = true
		close(es.workChan)
	}
	es.mu.Unlock()
	es.wg.Wait()
}

func (es *eventService) ProduceMessages(workerID int) {
	for km := range es.workChan {
		success := false
		for attempt := 0; attempt < constant.KafkaWriteRetries; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), constant.KafkaWriteTimeout)
			err := es.writer.WriteMessages(ctx, kafka.Message{
				Key:   []byte(km.Key),
				Value: km.Payload,
				Time:  time.Now(),
			})
			cancel()
			if err == nil {
				success = true
				break
			}
			es.logger.Warnf("kafka worker %d: write attempt %d failed: %v", workerID, attempt+1, err)
			time.Sleep(es.backoff * time.Duration(attempt+1))
		}
		if !success {
			km.Attempts += constant.KafkaWriteRetries
			es.toDLQ(context.Background(), km)
		}
	}
}

func (es *eventService) toDLQ(ctx context.Context, km domain.KafkaMessage) {
	if err := es.dlqRepository.InsertDLQ(ctx, km); err != nil {
		es.logger.WithContext(ctx).Error(errors.Wrapf(err, "dlq insert failed for %s", km.Topic))
	}
}
