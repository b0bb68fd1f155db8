package event

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	failures int
	calls    int
	written  []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.failures > 0 {
		w.failures--
		return assert.AnError
	}
	w.written = append(w.written, msgs...)
	return nil
}

type fakeDlq struct {
	mu       sync.Mutex
	messages []domain.KafkaMessage
}

func (d *fakeDlq) InsertDLQ(_ context.Context, km domain.KafkaMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, km)
	return nil
}

func newTestService(writer messageWriter, dlq dlqRepository) *eventService {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	es := NewEventService(dlq, writer, logger)
	es.backoff = time.Millisecond
	return es
}

func TestPublishDeliversEvent(t *testing.T) {
	writer := &fakeWriter{}
	dlq := &fakeDlq{}
	es := newTestService(writer, dlq)
	es.Start(2)

	es.Publish(context.Background(), domain.QueueEvent{
		Type:      domain.QueueEventClaimed,
		InquiryID: "A",
		RoomID:    "room-a",
		WorkerID:  "w-1",
	})
	es.Close()

	require.Len(t, writer.written, 1)
	assert.Equal(t, []byte("A"), writer.written[0].Key)

	var got domain.QueueEvent
	require.NoError(t, json.Unmarshal(writer.written[0].Value, &got))
	assert.Equal(t, domain.QueueEventClaimed, got.Type)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.OccurredAt.IsZero())
	assert.Empty(t, dlq.messages)
}

func TestPublishRetriesThenSucceeds(t *testing.T) {
	writer := &fakeWriter{failures: constant.KafkaWriteRetries - 1}
	dlq := &fakeDlq{}
	es := newTestService(writer, dlq)
	es.Start(1)

	es.Publish(context.Background(), domain.QueueEvent{Type: domain.QueueEventTaken, InquiryID: "A"})
	es.Close()

	assert.Equal(t, constant.KafkaWriteRetries, writer.calls)
	assert.Len(t, writer.written, 1)
	assert.Empty(t, dlq.messages)
}

func TestPublishFallsBackToDLQ(t *testing.T) {
	writer := &fakeWriter{failures: constant.KafkaWriteRetries}
	dlq := &fakeDlq{}
	es := newTestService(writer, dlq)
	es.Start(1)

	es.Publish(context.Background(), domain.QueueEvent{Type: domain.QueueEventReleased, InquiryID: "A"})
	es.Close()

	require.Len(t, dlq.messages, 1)
	assert.Equal(t, constant.TopicInquiryEvents, dlq.messages[0].Topic)
	assert.Equal(t, constant.KafkaWriteRetries, dlq.messages[0].Attempts)
}

func TestPublishWhenBufferFull(t *testing.T) {
	dlq := &fakeDlq{}
	es := newTestService(&fakeWriter{}, dlq)
	es.workChan = make(chan domain.KafkaMessage, 1)

	es.Publish(context.Background(), domain.QueueEvent{Type: domain.QueueEventQueued, InquiryID: "A"})
	es.Publish(context.Background(), domain.QueueEvent{Type: domain.QueueEventQueued, InquiryID: "B"})

	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "B", dlq.messages[0].Key)
}

func TestPublishAfterClose(t *testing.T) {
	dlq := &fakeDlq{}
	es := newTestService(&fakeWriter{}, dlq)
	es.Close()

	es.Publish(context.Background(), domain.QueueEvent{Type: domain.QueueEventRemoved, InquiryID: "A"})
	assert.Len(t, dlq.messages, 1)
}
