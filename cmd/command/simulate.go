package command

import (
	"context"
	"os"
	"time"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/infra"
	"arvan/inquiry-queue/internal/simulator"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type SimulateCommand struct {
	Logger *log.Logger
}

func (cmd SimulateCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	simCfg := simulator.Config{}
	c := &cobra.Command{
		Use:   "simulate",
		Short: "publish synthetic room events to load the queue",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx, simCfg)
		},
	}
	c.Flags().IntVar(&simCfg.Rooms, "rooms", 1000, "number of rooms to open")
	c.Flags().IntVar(&simCfg.TargetRPS, "rps", 50, "rooms opened per second")
	c.Flags().DurationVar(&simCfg.Duration, "duration", 5*time.Minute, "upper bound of the run")
	c.Flags().StringSliceVar(&simCfg.Departments, "departments", nil, "departments to spread rooms over")
	c.Flags().Float64Var(&simCfg.RemoveRatio, "remove-ratio", 0.1, "share of rooms closed right away")
	return c
}

func (cmd SimulateCommand) main(cfg *config.Config, ctx context.Context, simCfg simulator.Config) {
	writer := infra.NewKafkaWriter(cfg.Kafka, constant.TopicRoomEvents)
	defer func() {
		if err := writer.Close(); err != nil {
			cmd.Logger.WithContext(ctx).Errorf("simulate : failed to close kafka writer: %v", err)
		}
	}()

	report := simulator.New(simCfg, writer, os.Stdout).Run(ctx)
	if report.Failed > 0 {
		cmd.Logger.WithContext(ctx).Warnf("simulate : %d of %d rooms failed", report.Failed, report.Total)
	}
}
