package command

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/internal/infra"
	"arvan/inquiry-queue/internal/repository"
	"arvan/inquiry-queue/internal/service/eventsink"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type EventConsumerCommand struct {
	Logger *log.Logger
}

func (cmd EventConsumerCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "consume-events",
		Short: "consume inquiry queue events from Kafka and push to ClickHouse",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx)
		},
	}
}

func (cmd EventConsumerCommand) main(cfg *config.Config, ctx context.Context) {
	clickhouseDb, err := infra.NewClickHouseClient(cfg.Database.ClickHouse, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatalf("failed to initialize ClickHouse client: %v", err)
	}

	inquiryEvents := infra.NewKafkaConsumer(cfg.Kafka, constant.TopicInquiryEvents)
	defer func() {
		if err := inquiryEvents.Close(); err != nil {
			cmd.Logger.WithContext(ctx).Errorf("failed to close Kafka consumer: %v", err)
		}
	}()

	eventRepo := repository.NewQueueEventRepository(clickhouseDb.GetDb())

	numConsumers := cfg.Queue.WorkerCount
	if numConsumers <= 0 {
		numConsumers = constant.KafkaWorkerCount
	}

	cmd.Logger.WithContext(ctx).Infof("starting %d consumer goroutines for %s topic", numConsumers, constant.TopicInquiryEvents)

	msgChan := make(chan domain.QueueEvent, 1000)

	var readers sync.WaitGroup
	for i := 0; i < numConsumers; i++ {
		consumerID := i
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				m, err := inquiryEvents.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					cmd.Logger.WithContext(ctx).Errorf("consumer %d: read error: %v", consumerID, err)
					time.Sleep(500 * time.Millisecond)
					continue
				}

				var queueEvent domain.QueueEvent
				if err := json.Unmarshal(m.Value, &queueEvent); err != nil {
					cmd.Logger.WithContext(ctx).Errorf("consumer %d: failed to unmarshal message: %v, raw: %s", consumerID, err, string(m.Value))
					continue
				}

				select {
				case msgChan <- queueEvent:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	sink := eventsink.NewEventSink(eventRepo, cmd.Logger)

	var writers sync.WaitGroup
	for i := 0; i < constant.KafkaWorkerCount; i++ {
		writerID := i
		writers.Add(1)
		go func() {
			defer writers.Done()
			sink.Run(ctx, writerID, msgChan)
		}()
	}

	cmd.Logger.WithContext(ctx).Info("event consumer started successfully")
	readers.Wait()
	// writers drain whatever the readers already buffered
	close(msgChan)
	writers.Wait()
}
