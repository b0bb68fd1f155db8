package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

type AppEnv string

const (
	ProductionEnv AppEnv = "production"
	StageEnv      AppEnv = "stage"
	DevelopEnv    AppEnv = "develop"
	LocalEnv      AppEnv = "local"
	TestEnv       AppEnv = "test"
)

type Edition string

const (
	CommunityEdition  Edition = "community"
	EnterpriseEdition Edition = "enterprise"
)

type (
	Config struct {
		AppEnv   AppEnv
		LogLevel logrus.Level
		HTTP     HTTP
		Database Database
		Kafka    Kafka
		Queue    Queue
	}

	HTTP struct {
		Port int
	}

	Database struct {
		// Driver selects the inquiry store: "postgres" or "sqlite".
		Driver     string
		Postgres   Postgres
		SQLite     SQLite
		Redis      Redis
		ClickHouse ClickHouse
	}

	Postgres struct {
		Host     string
		Port     int
		Username string
		Password string
		Database string
	}

	SQLite struct {
		Path string
	}

	Redis struct {
		Host     string
		Port     int
		Password string
		Database int
	}

	ClickHouse struct {
		Host     string
		Port     int
		Username string
		Password string
		Database string
	}

	Kafka struct {
		Host string
		Port int
	}

	Queue struct {
		Edition         Edition
		DefaultSortMode string
		WorkerCount     int
		PollInterval    time.Duration
		RecoverOnStart  bool
		SettingsRefresh time.Duration
		// Agents is the pool the stub assigner hands inquiries to.
		Agents []string
	}
)
