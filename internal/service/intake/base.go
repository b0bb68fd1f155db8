package intake

import (
	"context"

	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/pkg/clock"

	"github.com/sirupsen/logrus"
)

type intakeService struct {
	inquiryRepository inquiryRepository
	queueManager      queueManager
	publisher         publisher
	clock             clock.Clock
	logger            *logrus.Logger
}

type inquiryRepository interface {
	Create(ctx context.Context, inquiry domain.Inquiry) error
}

type queueManager interface {
	SetLastMessage(ctx context.Context, rid string, message domain.Message) (int64, error)
	RemoveByRoomID(ctx context.Context, rid string) (int64, error)
}

type publisher interface {
	Publish(ctx context.Context, event domain.QueueEvent)
}

func NewIntakeService(
	inquiryRepository inquiryRepository,
	queueManager queueManager,
	publisher publisher,
	clk clock.Clock,
	logger *logrus.Logger,
) *intakeService {
	return &intakeService{
		inquiryRepository: inquiryRepository,
		queueManager:      queueManager,
		publisher:         publisher,
		clock:             clk,
		logger:            logger,
	}
}
