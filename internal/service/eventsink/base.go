package eventsink

import (
	"context"
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/sirupsen/logrus"
)

type eventRepository interface {
	InsertQueueEvents(ctx context.Context, events []domain.QueueEvent) error
}

type eventSink struct {
	eventRepository eventRepository
	logger          *logrus.Logger

	batchSize     int
	flushInterval time.Duration
	insertTimeout time.Duration
}

func NewEventSink(repo eventRepository, logger *logrus.Logger) *eventSink {
	return &eventSink{
		eventRepository: repo,
		logger:          logger,
		batchSize:       constant.EventBatchSize,
		flushInterval:   constant.EventFlushInterval,
		insertTimeout:   5 * time.Second,
	}
}
