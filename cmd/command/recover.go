package command

import (
	"context"

	"arvan/inquiry-queue/internal/config"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type RecoverCommand struct {
	Logger *log.Logger
}

func (cmd RecoverCommand) Command(ctx context.Context, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "clear every inquiry lease; run only while no dispatcher is up",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.main(cfg, ctx)
		},
	}
}

func (cmd RecoverCommand) main(cfg *config.Config, ctx context.Context) {
	deps, err := openQueue(ctx, cfg, cmd.Logger)
	if err != nil {
		cmd.Logger.WithContext(ctx).Fatal(errors.Wrap(err, "recover : failed to open queue"))
		return
	}
	defer deps.close(ctx, cmd.Logger)

	affected, err := deps.queueManager.RecoverAll(ctx)
	if err != nil {
		cmd.Logger.WithContext(ctx).Error(errors.Wrap(err, "recover : failed to clear leases"))
		return
	}
	cmd.Logger.WithContext(ctx).Infof("recover : cleared %d leases", affected)
}
