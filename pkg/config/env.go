package config

// EnvPrefix is passed to envconfig; every field carries an explicit name so the
// prefix only matters for fields without one.
const EnvPrefix = "EATWISE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "EATWISE_APP_ENV"
	EnvPort     = "EATWISE_APP_PORT"
	EnvLogLevel = "EATWISE_LOG_LEVEL"

	EnvDBDSN  = "EATWISE_DB_DSN"
	EnvDBHost = "EATWISE_DB_HOST"
	EnvDBUser = "EATWISE_DB_USER"
	EnvDBName = "EATWISE_DB_NAME"

	EnvRedisURL = "EATWISE_REDIS_URL"

	EnvJWTSecret = "EATWISE_JWT_SECRET"
	EnvJWTIssuer = "EATWISE_JWT_ISSUER"

	EnvGCSBucket       = "EATWISE_GCS_BUCKET_NAME"
	EnvModerationTopic = "EATWISE_PUBSUB_MODERATION_TOPIC"
	EnvSeedRequireAuth = "EATWISE_ADMIN_SEED_REQUIRE_AUTH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
