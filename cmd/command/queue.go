package command

import (
	"context"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/internal/infra"
	"arvan/inquiry-queue/internal/queue"
	"arvan/inquiry-queue/internal/repository"
	"arvan/inquiry-queue/pkg/clock"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// queueDeps are the connections every queue-facing command opens.
type queueDeps struct {
	db           infra.Database
	redisClient  *redis.Client
	inquiryRepo  inquiryRepository
	queueManager *queue.QueueManager
}

type inquiryRepository interface {
	Create(ctx context.Context, inquiry domain.Inquiry) error
	MarkTaken(ctx context.Context, id string) (int64, error)
}

func openQueue(ctx context.Context, cfg *config.Config, logger *log.Logger) (*queueDeps, error) {
	db, err := infra.OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open inquiry store")
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg.Database.Redis, logger)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to connect to redis")
	}

	inquiryRepo := repository.NewInquiryRepository(db.GetDb())
	extension := queue.NewExtension(cfg.Queue.Edition, inquiryRepo)

	return &queueDeps{
		db:           db,
		redisClient:  redisClient,
		inquiryRepo:  inquiryRepo,
		queueManager: queue.NewQueueManager(inquiryRepo, extension, clock.Real{}, logger),
	}, nil
}

func (d *queueDeps) close(ctx context.Context, logger *log.Logger) {
	if err := d.redisClient.Close(); err != nil {
		logger.WithContext(ctx).Errorf("failed to close redis: %v", err)
	}
	if err := d.db.Close(); err != nil {
		logger.WithContext(ctx).Errorf("failed to close inquiry store: %v", err)
	}
}
