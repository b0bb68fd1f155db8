package command

import (
	"context"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/infra"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type MigrateCommand struct {
	Logger *log.Logger
}

func (cmd MigrateCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	c := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "run migration",
		ValidArgs: []string{"up", "down"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	}
	withClickHouse := c.Flags().Bool("clickhouse", true, "also migrate the clickhouse event log")
	c.Run = func(_ *cobra.Command, args []string) {
		cmd.main(cfg, ctx, args[0], *withClickHouse)
	}
	return c
}

func (cmd MigrateCommand) main(cfg *config.Config, ctx context.Context, direction string, withClickHouse bool) {
	db, err := infra.OpenDatabase(ctx, cfg.Database, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "migrate : failed to open inquiry store"))
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			cmd.Logger.WithContext(ctx).Errorf("migrate : failed to close inquiry store: %v", err)
		}
	}()

	var clickhouse *infra.ClickHouseClient
	if withClickHouse {
		clickhouse, err = infra.NewClickHouseClient(cfg.Database.ClickHouse, cmd.Logger)
		if err != nil {
			cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "migrate : failed to connect to clickhouse"))
			return
		}
	}

	switch direction {
	case "up":
		if err := db.MigrateUp(cfg.Database.Postgres.Database); err != nil {
			cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "migrate : inquiry store up"))
			return
		}
		if clickhouse != nil {
			if err := clickhouse.MigrateUp(cfg.Database.ClickHouse.Database); err != nil {
				cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "migrate : clickhouse up"))
				return
			}
		}

	case "down":
		if err := db.MigrateDown(cfg.Database.Postgres.Database); err != nil {
			cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "migrate : inquiry store down"))
			return
		}
		if clickhouse != nil {
			if err := clickhouse.MigrateDown(cfg.Database.ClickHouse.Database); err != nil {
				cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "migrate : clickhouse down"))
				return
			}
		}

	default:
		cmd.Logger.WithContext(ctx).Fatal(errors.Errorf("migration command : %s is not supported", direction))
	}

	cmd.Logger.WithContext(ctx).Infof("migrate : %s done", direction)
}
