package infra

import (
	"context"

	"arvan/inquiry-queue/internal/config"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Database is the inquiry store connection regardless of driver.
type Database interface {
	GetDb() *gorm.DB
	MigrateUp(dbName string) error
	MigrateDown(dbName string) error
	Close() error
}

func OpenDatabase(ctx context.Context, cfg config.Database, logger *log.Logger) (Database, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresClient(ctx, cfg.Postgres, logger)
	case "sqlite":
		client, err := NewSQLiteClient(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, err
		}
		// sqlite has no migration files; the schema follows the entities.
		if err := client.MigrateUp(""); err != nil {
			return nil, errors.Wrap(err, "failed to migrate sqlite")
		}
		return client, nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
