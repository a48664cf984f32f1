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
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Notify       NotifyConfig
}

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
	Env          string `envconfig:"LAVANDERIA_APP_ENV" required:"true"`
	Port         string `envconfig:"LAVANDERIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAVANDERIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAVANDERIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LAVANDERIA_DB_DSN"`
	Driver string `envconfig:"LAVANDERIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LAVANDERIA_DB_HOST"`
	LegacyPort     int    `envconfig:"LAVANDERIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LAVANDERIA_DB_USER"`
	LegacyPassword string `envconfig:"LAVANDERIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"LAVANDERIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"LAVANDERIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAVANDERIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAVANDERIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAVANDERIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAVANDERIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAVANDERIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LAVANDERIA_REDIS_ADDR"`
	Password     string        `envconfig:"LAVANDERIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAVANDERIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAVANDERIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAVANDERIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAVANDERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAVANDERIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAVANDERIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"LAVANDERIA_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"LAVANDERIA_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LAVANDERIA_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	ConsumerIdempotencyTTL time.Duration `envconfig:"LAVANDERIA_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LAVANDERIA_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"LAVANDERIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LAVANDERIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ComandasTopic         string `envconfig:"LAVANDERIA_PUBSUB_COMANDAS_TOPIC" required:"true"`
	ComandasSubscription  string `envconfig:"LAVANDERIA_PUBSUB_COMANDAS_SUBSCRIPTION" required:"true"`
	TrackingTopic         string `envconfig:"LAVANDERIA_PUBSUB_TRACKING_TOPIC" required:"true"`
	TrackingSubscription  string `envconfig:"LAVANDERIA_PUBSUB_TRACKING_SUBSCRIPTION"`
	NotificationTopic     string `envconfig:"LAVANDERIA_PUBSUB_NOTIFICATION_TOPIC" default:"lav-notification-events"`
	NotificationQueueOnly bool   `envconfig:"LAVANDERIA_PUBSUB_NOTIFICATION_QUEUE_ONLY" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LAVANDERIA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LAVANDERIA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LAVANDERIA_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type NotifyConfig struct {
	PickupDeadlineDays int `envconfig:"LAVANDERIA_NOTIFY_PICKUP_DEADLINE_DAYS" default:"7"`
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
