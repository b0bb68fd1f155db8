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
	"arvan/inquiry-queue/internal/service/event"
	"arvan/inquiry-queue/internal/service/intake"
	"arvan/inquiry-queue/pkg/clock"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type ConsumerCommand struct {
	Logger *log.Logger
}

func (cmd ConsumerCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "consume room events and maintain the inquiry queue",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx)
		},
	}
}

func (cmd ConsumerCommand) main(cfg *config.Config, ctx context.Context) {
	deps, err := openQueue(ctx, cfg, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "consumer : failed to open queue"))
		return
	}
	defer deps.close(ctx, cmd.Logger)

	kafkaWriter := infra.NewKafkaWriter(cfg.Kafka, constant.TopicInquiryEvents)
	eventService := event.NewEventService(repository.NewDlqRepository(deps.db.GetDb()), kafkaWriter, cmd.Logger)
	eventService.Start(constant.KafkaWorkerCount)
	defer func() {
		eventService.Close()
		if err := kafkaWriter.Close(); err != nil {
			cmd.Logger.WithContext(ctx).Errorf("consumer : failed to close kafka writer: %v", err)
		}
	}()

	intakeService := intake.NewIntakeService(deps.inquiryRepo, deps.queueManager, eventService, clock.Real{}, cmd.Logger)

	roomEvents := infra.NewKafkaConsumer(cfg.Kafka, constant.TopicRoomEvents)
	defer func() {
		if err := roomEvents.Close(); err != nil {
			cmd.Logger.WithContext(ctx).Errorf("consumer : close error: %v", err)
		}
	}()

	numConsumers := cfg.Queue.WorkerCount
	if numConsumers <= 0 {
		numConsumers = constant.KafkaWorkerCount
	}

	var wg sync.WaitGroup
	for i := 0; i < numConsumers; i++ {
		consumerID := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				m, err := roomEvents.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					cmd.Logger.WithContext(ctx).Errorf("kafka consumer %d: read error: %v", consumerID, err)
					time.Sleep(500 * time.Millisecond)
					continue
				}

				var roomEvent domain.RoomEvent
				if err := json.Unmarshal(m.Value, &roomEvent); err != nil {
					cmd.Logger.WithContext(ctx).Errorf("kafka consumer %d: invalid payload: %v", consumerID, err)
					continue
				}

				if err := intakeService.HandleRoomEvent(ctx, roomEvent); err != nil {
					cmd.Logger.WithContext(ctx).WithFields(log.Fields{
						"rid":  roomEvent.RoomID,
						"type": roomEvent.Type,
					}).Errorf("kafka consumer %d: handle error: %v", consumerID, err)
				}
			}
		}()
	}

	cmd.Logger.WithContext(ctx).Infof("started %d kafka consumer goroutines", numConsumers)
	wg.Wait()
	cmd.Logger.WithContext(ctx).Info("kafka consumer: context done, shutting down...")
}
