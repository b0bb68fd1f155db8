package worker

import (
	"context"
	"os"

	"github.com/google/uuid"
)

func (p *WorkerPool) Start(ctx context.Context) {
	if p.recoverOnStart {
		if _, err := p.qm.RecoverAll(ctx); err != nil {
			p.logger.WithContext(ctx).Errorf("worker pool: recover leases: %v", err)
		}
	}

	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.WithContext(ctx).Infof("worker pool: started %d dispatchers", p.numWorkers)
}

// Stop gracefully stops all workers and waits.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.logger.Info("worker pool: all dispatchers stopped")
}

func instanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return uuid.NewString()[:8]
	}
	return host
}
