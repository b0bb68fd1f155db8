package event

import (
	"context"
	"sync"
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type eventService struct {
	dlqRepository dlqRepository
	writer        messageWriter
	logger        *logrus.Logger
	workChan      chan domain.KafkaMessage
	backoff       time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type dlqRepository interface {
	InsertDLQ(ctx context.Context, km domain.KafkaMessage) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewEventService(
	dlqRepo dlqRepository,
	writer messageWriter,
	logger *logrus.Logger,
) *eventService {
	return &eventService{
		dlqRepository: dlqRepo,
		writer:        writer,
		logger:        logger,
		workChan:      make(chan domain.KafkaMessage, constant.KafkaWorkerBufSize),
		backoff:       constant.KafkaRetryBackoff,
	}
}
