package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const EnvConfigFile = "QUEUE_CONFIG_FILE"

type fileConfig struct {
	AppEnv   string       `yaml:"app_env"`
	LogLevel string       `yaml:"log_level"`
	HTTP     fileHTTP     `yaml:"http"`
	Database fileDatabase `yaml:"database"`
	Kafka    fileKafka    `yaml:"kafka"`
	Queue    fileQueue    `yaml:"queue"`
}

type fileHTTP struct {
	Port int `yaml:"port"`
}

type fileDatabase struct {
	Driver     string     `yaml:"driver"`
	Postgres   fileServer `yaml:"postgres"`
	SQLitePath string     `yaml:"sqlite_path"`
	Redis      fileServer `yaml:"redis"`
	ClickHouse fileServer `yaml:"clickhouse"`
}

type fileServer struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	DB       int    `yaml:"db"`
}

type fileKafka struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type fileQueue struct {
	Edition         string   `yaml:"edition"`
	DefaultSortMode string   `yaml:"default_sort_mode"`
	WorkerCount     int      `yaml:"worker_count"`
	PollInterval    string   `yaml:"poll_interval"`
	RecoverOnStart  *bool    `yaml:"recover_on_start"`
	SettingsRefresh string   `yaml:"settings_refresh"`
	Agents          []string `yaml:"agents"`
}

func Default() *Config {
	return &Config{
		AppEnv:   LocalEnv,
		LogLevel: logrus.InfoLevel,
		HTTP:     HTTP{Port: 8080},
		Database: Database{
			Driver: "postgres",
			Postgres: Postgres{
				Host:     "localhost",
				Port:     5432,
				Username: "postgres",
				Database: "livechat",
			},
			SQLite:     SQLite{Path: "inquiry-queue.db"},
			Redis:      Redis{Host: "localhost", Port: 6379},
			ClickHouse: ClickHouse{Host: "localhost", Port: 9000, Username: "default", Database: "livechat"},
		},
		Kafka: Kafka{Host: "localhost", Port: 9092},
		Queue: Queue{
			Edition:         CommunityEdition,
			DefaultSortMode: "Timestamp",
			WorkerCount:     4,
			PollInterval:    100 * time.Millisecond,
			RecoverOnStart:  true,
			SettingsRefresh: 10 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by QUEUE_CONFIG_FILE, and QUEUE_* environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
		if err := applyFile(cfg, fc); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	switch c.Queue.Edition {
	case CommunityEdition, EnterpriseEdition:
	default:
		return errors.Errorf("config: unsupported edition %q", c.Queue.Edition)
	}
	if c.Queue.WorkerCount <= 0 {
		return errors.New("config: queue worker count must be positive")
	}
	if c.Queue.PollInterval <= 0 {
		return errors.New("config: queue poll interval must be positive")
	}
	if c.Queue.SettingsRefresh <= 0 {
		return errors.New("config: settings refresh interval must be positive")
	}
	return nil
}

func applyFile(cfg *Config, fc fileConfig) error {
	if fc.AppEnv != "" {
		cfg.AppEnv = AppEnv(fc.AppEnv)
	}
	if fc.LogLevel != "" {
		lvl, err := logrus.ParseLevel(fc.LogLevel)
		if err != nil {
			return errors.Wrap(err, "config: log_level")
		}
		cfg.LogLevel = lvl
	}
	if fc.HTTP.Port != 0 {
		cfg.HTTP.Port = fc.HTTP.Port
	}

	db := fc.Database
	if db.Driver != "" {
		cfg.Database.Driver = strings.ToLower(db.Driver)
	}
	if db.SQLitePath != "" {
		cfg.Database.SQLite.Path = db.SQLitePath
	}
	mergeServer(&cfg.Database.Postgres.Host, &cfg.Database.Postgres.Port, db.Postgres)
	if db.Postgres.Username != "" {
		cfg.Database.Postgres.Username = db.Postgres.Username
	}
	if db.Postgres.Password != "" {
		cfg.Database.Postgres.Password = db.Postgres.Password
	}
	if db.Postgres.Database != "" {
		cfg.Database.Postgres.Database = db.Postgres.Database
	}
	mergeServer(&cfg.Database.Redis.Host, &cfg.Database.Redis.Port, db.Redis)
	if db.Redis.Password != "" {
		cfg.Database.Redis.Password = db.Redis.Password
	}
	if db.Redis.DB != 0 {
		cfg.Database.Redis.Database = db.Redis.DB
	}
	mergeServer(&cfg.Database.ClickHouse.Host, &cfg.Database.ClickHouse.Port, db.ClickHouse)
	if db.ClickHouse.Username != "" {
		cfg.Database.ClickHouse.Username = db.ClickHouse.Username
	}
	if db.ClickHouse.Password != "" {
		cfg.Database.ClickHouse.Password = db.ClickHouse.Password
	}
	if db.ClickHouse.Database != "" {
		cfg.Database.ClickHouse.Database = db.ClickHouse.Database
	}

	if fc.Kafka.Host != "" {
		cfg.Kafka.Host = fc.Kafka.Host
	}
	if fc.Kafka.Port != 0 {
		cfg.Kafka.Port = fc.Kafka.Port
	}

	q := fc.Queue
	if q.Edition != "" {
		cfg.Queue.Edition = Edition(strings.ToLower(q.Edition))
	}
	if q.DefaultSortMode != "" {
		cfg.Queue.DefaultSortMode = q.DefaultSortMode
	}
	if q.WorkerCount != 0 {
		cfg.Queue.WorkerCount = q.WorkerCount
	}
	if q.PollInterval != "" {
		d, err := time.ParseDuration(q.PollInterval)
		if err != nil {
			return errors.Wrap(err, "config: queue.poll_interval")
		}
		cfg.Queue.PollInterval = d
	}
	if q.RecoverOnStart != nil {
		cfg.Queue.RecoverOnStart = *q.RecoverOnStart
	}
	if q.SettingsRefresh != "" {
		d, err := time.ParseDuration(q.SettingsRefresh)
		if err != nil {
			return errors.Wrap(err, "config: queue.settings_refresh")
		}
		cfg.Queue.SettingsRefresh = d
	}
	if len(q.Agents) > 0 {
		cfg.Queue.Agents = q.Agents
	}
	return nil
}

func mergeServer(host *string, port *int, fs fileServer) {
	if fs.Host != "" {
		*host = fs.Host
	}
	if fs.Port != 0 {
		*port = fs.Port
	}
}

func applyEnv(cfg *Config) error {
	if v := env("QUEUE_APP_ENV"); v != "" {
		cfg.AppEnv = AppEnv(v)
	}
	if v := env("QUEUE_LOG_LEVEL"); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return errors.Wrap(err, "config: QUEUE_LOG_LEVEL")
		}
		cfg.LogLevel = lvl
	}
	if err := envInt("QUEUE_HTTP_PORT", &cfg.HTTP.Port); err != nil {
		return err
	}

	if v := env("QUEUE_DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := env("QUEUE_SQLITE_PATH"); v != "" {
		cfg.Database.SQLite.Path = v
	}
	if v := env("QUEUE_POSTGRES_HOST"); v != "" {
		cfg.Database.Postgres.Host = v
	}
	if err := envInt("QUEUE_POSTGRES_PORT", &cfg.Database.Postgres.Port); err != nil {
		return err
	}
	if v := env("QUEUE_POSTGRES_USER"); v != "" {
		cfg.Database.Postgres.Username = v
	}
	if v := env("QUEUE_POSTGRES_PASSWORD"); v != "" {
		cfg.Database.Postgres.Password = v
	}
	if v := env("QUEUE_POSTGRES_DB"); v != "" {
		cfg.Database.Postgres.Database = v
	}
	if v := env("QUEUE_REDIS_HOST"); v != "" {
		cfg.Database.Redis.Host = v
	}
	if err := envInt("QUEUE_REDIS_PORT", &cfg.Database.Redis.Port); err != nil {
		return err
	}
	if v := env("QUEUE_REDIS_PASSWORD"); v != "" {
		cfg.Database.Redis.Password = v
	}
	if err := envInt("QUEUE_REDIS_DB", &cfg.Database.Redis.Database); err != nil {
		return err
	}
	if v := env("QUEUE_CLICKHOUSE_HOST"); v != "" {
		cfg.Database.ClickHouse.Host = v
	}
	if err := envInt("QUEUE_CLICKHOUSE_PORT", &cfg.Database.ClickHouse.Port); err != nil {
		return err
	}
	if v := env("QUEUE_CLICKHOUSE_USER"); v != "" {
		cfg.Database.ClickHouse.Username = v
	}
	if v := env("QUEUE_CLICKHOUSE_PASSWORD"); v != "" {
		cfg.Database.ClickHouse.Password = v
	}
	if v := env("QUEUE_CLICKHOUSE_DB"); v != "" {
		cfg.Database.ClickHouse.Database = v
	}
	if v := env("QUEUE_KAFKA_HOST"); v != "" {
		cfg.Kafka.Host = v
	}
	if err := envInt("QUEUE_KAFKA_PORT", &cfg.Kafka.Port); err != nil {
		return err
	}

	if v := env("QUEUE_EDITION"); v != "" {
		cfg.Queue.Edition = Edition(strings.ToLower(v))
	}
	if v := env("QUEUE_SORT_MODE"); v != "" {
		cfg.Queue.DefaultSortMode = v
	}
	if err := envInt("QUEUE_WORKER_COUNT", &cfg.Queue.WorkerCount); err != nil {
		return err
	}
	if err := envDuration("QUEUE_POLL_INTERVAL", &cfg.Queue.PollInterval); err != nil {
		return err
	}
	if err := envDuration("QUEUE_SETTINGS_REFRESH", &cfg.Queue.SettingsRefresh); err != nil {
		return err
	}
	if v := env("QUEUE_RECOVER_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "config: QUEUE_RECOVER_ON_START")
		}
		cfg.Queue.RecoverOnStart = b
	}
	if v := env("QUEUE_AGENTS"); v != "" {
		cfg.Queue.Agents = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Queue.Agents = append(cfg.Queue.Agents, p)
			}
		}
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envInt(key string, dst *int) error {
	v := env(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "config: %s", key)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := env(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "config: %s", key)
	}
	*dst = d
	return nil
}
