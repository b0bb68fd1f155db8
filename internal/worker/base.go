package worker

import (
	"context"
	"sync"
	"time"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/internal/provider"

	log "github.com/sirupsen/logrus"
)

type queueManager interface {
	ClaimNext(ctx context.Context, sortMode domain.SortMode, department string) (*domain.Inquiry, error)
	Release(ctx context.Context, inquiryID string) error
	RecoverAll(ctx context.Context) (int64, error)
	GetDistinctQueuedDepartments(ctx context.Context) ([]string, error)
}

type sortModeSource interface {
	SortMode(ctx context.Context) domain.SortMode
}

type publisher interface {
	Publish(ctx context.Context, event domain.QueueEvent)
}

// WorkerPool runs dispatchers that claim queued inquiries and hand them to
// agents.
type WorkerPool struct {
	qm             queueManager
	assigner       provider.Assigner
	settings       sortModeSource
	publisher      publisher
	logger         *log.Logger
	numWorkers     int
	pollInterval   time.Duration
	recoverOnStart bool
	instance       string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkerPool(
	qm queueManager,
	assigner provider.Assigner,
	settings sortModeSource,
	publisher publisher,
	cfg config.Queue,
	logger *log.Logger,
) *WorkerPool {
	return &WorkerPool{
		qm:             qm,
		assigner:       assigner,
		settings:       settings,
		publisher:      publisher,
		logger:         logger,
		numWorkers:     cfg.WorkerCount,
		pollInterval:   cfg.PollInterval,
		recoverOnStart: cfg.RecoverOnStart,
		instance:       instanceName(),
	}
}
