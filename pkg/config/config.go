package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Access  AccessConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WAREHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"WAREHOUSE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WAREHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WAREHOUSE_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"WAREHOUSE_LOG_FORMAT" default:"json"`

	ShutdownTimeout time.Duration `envconfig:"WAREHOUSE_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the document store that backs the entity pools.
type StorageConfig struct {
	Driver        string        `envconfig:"WAREHOUSE_STORAGE_DRIVER" default:"fs"`
	Dir           string        `envconfig:"WAREHOUSE_STORAGE_DIR" default:"data"`
	FlushInterval time.Duration `envconfig:"WAREHOUSE_FLUSH_INTERVAL" default:"0s"`
}

type DBConfig struct {
	DSN     string `envconfig:"WAREHOUSE_DB_DSN"`
	Dialect string `envconfig:"WAREHOUSE_DB_DIALECT" default:"postgres"`

	AutoMigrate bool `envconfig:"WAREHOUSE_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"WAREHOUSE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"WAREHOUSE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"WAREHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WAREHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WAREHOUSE_REDIS_URL"`
	Address      string        `envconfig:"WAREHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"WAREHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAREHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAREHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAREHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAREHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAREHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAREHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`

	IdempotencyTTL time.Duration `envconfig:"WAREHOUSE_IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret string `envconfig:"WAREHOUSE_JWT_SECRET"`
	Issuer string `envconfig:"WAREHOUSE_JWT_ISSUER" default:"warehouse-backend"`

	ExpirationMinutes int `envconfig:"WAREHOUSE_JWT_EXPIRATION_MINUTES" default:"480"`
}

func (j JWTConfig) Enabled() bool {
	return j.Secret != ""
}

type AccessConfig struct {
	APIKeysFile string `envconfig:"WAREHOUSE_API_KEYS_FILE"`
	PolicyFile  string `envconfig:"WAREHOUSE_ACCESS_POLICY_FILE"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"WAREHOUSE_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"WAREHOUSE_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"WAREHOUSE_PUBSUB_NOTIFICATION_TOPIC"`
}

// Enabled reports whether commit notifications should also be published to Pub/Sub.
func (p PubSubConfig) Enabled(gcp GCPConfig) bool {
	return p.NotificationTopic != "" && gcp.ProjectID != ""
}

func (c *Config) validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageDriverFS:
		if c.Storage.Dir == "" {
			return fmt.Errorf("%s is required for the fs storage driver", EnvStorageDir)
		}
	case StorageDriverRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("%s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
	case StorageDriverSQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the sql storage driver", EnvDBDSN)
		}
		c.DB.Dialect = strings.ToLower(strings.TrimSpace(c.DB.Dialect))
		if c.DB.Dialect != DialectPostgres && c.DB.Dialect != DialectSQLite {
			return fmt.Errorf("unsupported %s %q", EnvDBDialect, c.DB.Dialect)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
	if c.Storage.FlushInterval < 0 {
		return fmt.Errorf("%s must not be negative", EnvFlushInterval)
	}
	return nil
}
