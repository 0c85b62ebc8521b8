package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	Admin        AdminConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	PubSub       PubSubConfig
}

// Load reads the environment into a Config. A missing database DSN is a fatal
// configuration error; callers are expected to exit.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EATWISE_APP_ENV" default:"dev"`
	Port         string `envconfig:"EATWISE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"EATWISE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"EATWISE_LOG_FORMAT" default:"json"`
	LogWarnStack Flag   `envconfig:"EATWISE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"EATWISE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"EATWISE_DB_DSN"`

	LegacyHost     string `envconfig:"EATWISE_DB_HOST"`
	LegacyPort     int    `envconfig:"EATWISE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EATWISE_DB_USER"`
	LegacyPassword string `envconfig:"EATWISE_DB_PASSWORD"`
	LegacyName     string `envconfig:"EATWISE_DB_NAME"`
	LegacySSLMode  string `envconfig:"EATWISE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EATWISE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EATWISE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EATWISE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EATWISE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. With neither URL nor Address set, rate limiting and
// the seed lock are disabled.
type RedisConfig struct {
	URL          string        `envconfig:"EATWISE_REDIS_URL"`
	Address      string        `envconfig:"EATWISE_REDIS_ADDR"`
	Password     string        `envconfig:"EATWISE_REDIS_PASSWORD"`
	DB           int           `envconfig:"EATWISE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EATWISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EATWISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EATWISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EATWISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EATWISE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"EATWISE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EATWISE_JWT_ISSUER" default:"eatwise"`
	ExpirationMinutes int    `envconfig:"EATWISE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EATWISE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EATWISE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EATWISE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EATWISE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EATWISE_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	SubmissionWindow time.Duration `envconfig:"EATWISE_RATE_LIMIT_SUBMISSION_WINDOW" default:"10m"`
	SubmissionLimit  int           `envconfig:"EATWISE_RATE_LIMIT_SUBMISSION_LIMIT" default:"20"`
	LoginWindow      time.Duration `envconfig:"EATWISE_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginLimit       int           `envconfig:"EATWISE_RATE_LIMIT_LOGIN_LIMIT" default:"10"`
}

type AdminConfig struct {
	SeedRequireAuth Flag          `envconfig:"EATWISE_ADMIN_SEED_REQUIRE_AUTH" default:"false"`
	SeedLockTTL     time.Duration `envconfig:"EATWISE_ADMIN_SEED_LOCK_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate Flag `envconfig:"EATWISE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"EATWISE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"EATWISE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"EATWISE_GOOGLE_APPLICATION_CREDENTIALS"`
}

// GCSConfig configures the media host. An empty bucket disables image uploads.
type GCSConfig struct {
	BucketName    string `envconfig:"EATWISE_GCS_BUCKET_NAME"`
	PublicBaseURL string `envconfig:"EATWISE_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

func (g GCSConfig) Enabled() bool {
	return strings.TrimSpace(g.BucketName) != ""
}

type MediaConfig struct {
	MaxUploadMB int    `envconfig:"EATWISE_MAX_UPLOAD_MB" default:"10"`
	Folder      string `envconfig:"EATWISE_MEDIA_FOLDER" default:"eat-wise-app"`
}

// MaxUploadBytes converts the configured megabyte cap into bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type PubSubConfig struct {
	ModerationTopic string `envconfig:"EATWISE_PUBSUB_MODERATION_TOPIC"`
}

func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.ModerationTopic) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
