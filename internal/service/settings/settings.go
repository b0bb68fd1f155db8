package settings

import (
	"context"
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/internal/queue"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func (ss *settingsService) SortMode(context.Context) domain.SortMode {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.sortMode
}

func (ss *settingsService) SetSortMode(ctx context.Context, raw string) (domain.SortMode, error) {
	mode, err := queue.ParseSortMode(raw)
	if err != nil {
		return "", err
	}

	if err := ss.redisClient.Set(ctx, constant.RedisSortModeKey, string(mode), 0).Err(); err != nil {
		return "", errors.Wrapf(constant.ErrUnavailable, "store sort mode: %v", err)
	}

	ss.mu.Lock()
	ss.sortMode = mode
	ss.mu.Unlock()

	return mode, nil
}

// Refresh reloads the sort mode from redis. A missing key selects the
// configured default; an unparsable value keeps the current mode.
func (ss *settingsService) Refresh(ctx context.Context) error {
	raw, err := ss.redisClient.Get(ctx, constant.RedisSortModeKey).Result()
	if errors.Is(err, redis.Nil) {
		ss.set(ss.fallback)
		return nil
	}
	if err != nil {
		return errors.Wrapf(constant.ErrUnavailable, "load sort mode: %v", err)
	}

	mode, err := queue.ParseSortMode(raw)
	if err != nil {
		return err
	}
	ss.set(mode)
	return nil
}

// Start loads the current value and refreshes it every interval until Stop.
func (ss *settingsService) Start(ctx context.Context, interval time.Duration) {
	if err := ss.Refresh(ctx); err != nil {
		ss.logger.WithContext(ctx).Warnf("settings: initial load failed, using %s: %v", ss.SortMode(ctx), err)
	}
	go ss.backgroundRefresh(ctx, interval)
}

func (ss *settingsService) Stop() {
	ss.stopOnce.Do(func() { close(ss.stopCh) })
}

func (ss *settingsService) backgroundRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ss.stopCh:
			return
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := ss.Refresh(refreshCtx); err != nil {
				// keep serving the cached mode
				ss.logger.WithContext(ctx).Warnf("settings: refresh failed: %v", err)
			}
			cancel()
		}
	}
}

func (ss *settingsService) set(mode domain.SortMode) {
	ss.mu.Lock()
	if ss.sortMode != mode {
		ss.logger.Infof("settings: queue sort mode is now %s", mode)
	}
	ss.sortMode = mode
	ss.mu.Unlock()
}
