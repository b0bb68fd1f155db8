package repository

import (
	"context"

	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/internal/repository/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type queueEventRepository struct {
	clickhouse *gorm.DB
}

func NewQueueEventRepository(clickhouse *gorm.DB) *queueEventRepository {
	return &queueEventRepository{
		clickhouse: clickhouse,
	}
}

func (qr *queueEventRepository) InsertQueueEvents(ctx context.Context, events []domain.QueueEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]entity.QueueEventLog, 0, len(events))
	for _, e := range events {
		rows = append(rows, entity.QueueEventLogFromDomain(e))
	}

	if err := qr.clickhouse.WithContext(ctx).CreateInBatches(rows, len(rows)).Error; err != nil {
		return errors.Wrap(err, "failed to insert queue events")
	}
	return nil
}
