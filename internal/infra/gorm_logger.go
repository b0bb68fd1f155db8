package infra

import (
	"time"

	log "github.com/sirupsen/logrus"
	gormLogger "gorm.io/gorm/logger"
)

// newGormLogger routes SQL tracing through the service logger. Statements
// are only printed when the service runs at debug level.
func newGormLogger(logger *log.Logger) gormLogger.Interface {
	level := gormLogger.Warn
	if logger.IsLevelEnabled(log.DebugLevel) {
		level = gormLogger.Info
	}

	return gormLogger.New(
		logger,
		gormLogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
