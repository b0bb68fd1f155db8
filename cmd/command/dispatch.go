package command

import (
	"context"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/infra"
	"arvan/inquiry-queue/internal/provider"
	"arvan/inquiry-queue/internal/queue"
	"arvan/inquiry-queue/internal/repository"
	"arvan/inquiry-queue/internal/service/event"
	"arvan/inquiry-queue/internal/service/settings"
	"arvan/inquiry-queue/internal/worker"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type DispatchCommand struct {
	Logger *log.Logger
}

func (cmd DispatchCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "claim queued inquiries and hand them to agents",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx)
		},
	}
}

func (cmd DispatchCommand) main(cfg *config.Config, ctx context.Context) {
	deps, err := openQueue(ctx, cfg, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "dispatch : failed to open queue"))
		return
	}
	defer deps.close(ctx, cmd.Logger)

	fallback, err := queue.ParseSortMode(cfg.Queue.DefaultSortMode)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "dispatch : invalid default sort mode"))
		return
	}
	settingsService := settings.NewSettingsService(deps.redisClient, fallback, cmd.Logger)
	settingsService.Start(ctx, cfg.Queue.SettingsRefresh)
	defer settingsService.Stop()

	kafkaWriter := infra.NewKafkaWriter(cfg.Kafka, constant.TopicInquiryEvents)
	eventService := event.NewEventService(repository.NewDlqRepository(deps.db.GetDb()), kafkaWriter, cmd.Logger)
	eventService.Start(constant.KafkaWorkerCount)
	defer func() {
		eventService.Close()
		if err := kafkaWriter.Close(); err != nil {
			cmd.Logger.WithContext(ctx).Errorf("dispatch : failed to close kafka writer: %v", err)
		}
	}()

	if len(cfg.Queue.Agents) == 0 {
		cmd.Logger.WithContext(ctx).Warn("dispatch : no agents configured, every claimed inquiry will be released")
	}
	assigner := provider.NewStubAssigner(cfg.Queue.Agents, deps.inquiryRepo)

	pool := worker.NewWorkerPool(deps.queueManager, assigner, settingsService, eventService, cfg.Queue, cmd.Logger)
	pool.Start(ctx)

	<-ctx.Done()
	cmd.Logger.WithContext(ctx).Info("dispatch : context done, shutting down...")
	pool.Stop()
}
