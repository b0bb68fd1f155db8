package settings

import (
	"sync"

	"arvan/inquiry-queue/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// settingsService keeps the active queue sort mode. The value lives in
// redis so every dispatcher and API instance agrees on it; reads are served
// from memory and refreshed in the background.
type settingsService struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	fallback    domain.SortMode

	mu       sync.RWMutex
	sortMode domain.SortMode

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewSettingsService(
	redisClient *redis.Client,
	fallback domain.SortMode,
	logger *logrus.Logger,
) *settingsService {
	return &settingsService{
		redisClient: redisClient,
		logger:      logger,
		fallback:    fallback,
		sortMode:    fallback,
		stopCh:      make(chan struct{}),
	}
}
