package infra

import (
	"os"
	"path/filepath"

	"arvan/inquiry-queue/internal/repository/entity"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SQLiteClient backs the inquiry store with a local file for development
// and tests. Writers are serialized on one connection.
type SQLiteClient struct {
	db *gorm.DB
}

func NewSQLiteClient(path string, logger *log.Logger) (*SQLiteClient, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create sqlite directory")
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logger),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite")
	}

	conn, err := db.DB()
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)

	return &SQLiteClient{db: db}, nil
}

func (s *SQLiteClient) GetDb() *gorm.DB {
	return s.db
}

func (s *SQLiteClient) Close() error {
	conn, err := s.db.DB()
	if err != nil {
		return err
	}
	return conn.Close()
}

func (s *SQLiteClient) MigrateUp(string) error {
	return s.db.AutoMigrate(&entity.Inquiry{}, &entity.KafkaDlq{})
}

func (s *SQLiteClient) MigrateDown(string) error {
	return s.db.Migrator().DropTable(&entity.Inquiry{}, &entity.KafkaDlq{})
}
