package config

const EnvPrefix = "WAREHOUSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverFS    = "fs"
	StorageDriverRedis = "redis"
	StorageDriverSQL   = "sql"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const (
	EnvAppEnv          = "WAREHOUSE_APP_ENV"
	EnvPort            = "WAREHOUSE_APP_PORT"
	EnvLogLevel        = "WAREHOUSE_LOG_LEVEL"
	EnvLogWarnStack    = "WAREHOUSE_LOG_WARN_STACK"
	EnvLogFormat       = "WAREHOUSE_LOG_FORMAT"
	EnvShutdownTimeout = "WAREHOUSE_SHUTDOWN_TIMEOUT"

	EnvStorageDriver = "WAREHOUSE_STORAGE_DRIVER"
	EnvStorageDir    = "WAREHOUSE_STORAGE_DIR"
	EnvFlushInterval = "WAREHOUSE_FLUSH_INTERVAL"

	EnvDBDSN         = "WAREHOUSE_DB_DSN"
	EnvDBDialect     = "WAREHOUSE_DB_DIALECT"
	EnvDBAutoMigrate = "WAREHOUSE_DB_AUTO_MIGRATE"

	EnvRedisURL       = "WAREHOUSE_REDIS_URL"
	EnvRedisAddr      = "WAREHOUSE_REDIS_ADDR"
	EnvIdempotencyTTL = "WAREHOUSE_IDEMPOTENCY_TTL"

	EnvJWTSecret = "WAREHOUSE_JWT_SECRET"
	EnvJWTIssuer = "WAREHOUSE_JWT_ISSUER"

	EnvAPIKeysFile  = "WAREHOUSE_API_KEYS_FILE"
	EnvPolicyFile   = "WAREHOUSE_ACCESS_POLICY_FILE"
	EnvGCPProjectID = "WAREHOUSE_GCP_PROJECT_ID"

	EnvPubSubNotificationTopic = "WAREHOUSE_PUBSUB_NOTIFICATION_TOPIC"
)
