package command

import (
	"context"
	"fmt"

	"arvan/inquiry-queue/internal/api"
	"arvan/inquiry-queue/internal/api/handler/inquiry"
	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/infra"
	"arvan/inquiry-queue/internal/queue"
	"arvan/inquiry-queue/internal/repository"
	"arvan/inquiry-queue/internal/service/event"
	"arvan/inquiry-queue/internal/service/settings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type Server struct {
	Logger *logrus.Logger
}

func (cmd Server) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "run inquiry queue http api",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx)
		},
	}
}

func (cmd Server) main(cfg *config.Config, ctx context.Context) {
	deps, err := openQueue(ctx, cfg, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "server : failed to open queue"))
		return
	}
	defer deps.close(ctx, cmd.Logger)

	fallback, err := queue.ParseSortMode(cfg.Queue.DefaultSortMode)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "server : invalid default sort mode"))
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
			cmd.Logger.WithContext(ctx).Errorf("server : failed to close kafka writer: %v", err)
		}
	}()

	handler := inquiry.New(deps.queueManager, settingsService, eventService, cmd.Logger)

	server := api.New(cfg.AppEnv, cmd.Logger)
	server.SetupAPIRoutes(handler)

	if err := server.Serve(ctx, fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
		cmd.Logger.WithContext(ctx).Error(errors.Wrap(err, "server : http server stopped"))
	}
}
