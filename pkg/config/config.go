package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Password    PasswordConfig
	Marketplace MarketplaceConfig
	GCP         GCPConfig
	PubSub      PubSubConfig
	Outbox      OutboxConfig
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
	Env          string `envconfig:"SOLIDMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"SOLIDMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOLIDMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOLIDMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOLIDMARKET_DB_DSN"`
	Driver string `envconfig:"SOLIDMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOLIDMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"SOLIDMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOLIDMARKET_DB_USER"`
	LegacyPassword string `envconfig:"SOLIDMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOLIDMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOLIDMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOLIDMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOLIDMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOLIDMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOLIDMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"SOLIDMARKET_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOLIDMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOLIDMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"SOLIDMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOLIDMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOLIDMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOLIDMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOLIDMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOLIDMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOLIDMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOLIDMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOLIDMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SOLIDMARKET_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOLIDMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOLIDMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOLIDMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOLIDMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOLIDMARKET_ARGON_KEY_LEN" default:"32"`
}

// MarketplaceConfig seeds the runtime settings store on first boot. The live
// values are read from pkg/settings at use time, not from here.
type MarketplaceConfig struct {
	DefaultCommissionFlatRate   string `envconfig:"SOLIDMARKET_DEFAULT_COMMISSION_FLAT_RATE" default:"0"`
	DefaultCommissionPercentage string `envconfig:"SOLIDMARKET_DEFAULT_COMMISSION_PERCENTAGE" default:"0"`
	SendSupplierEmail           bool   `envconfig:"SOLIDMARKET_SEND_SUPPLIER_EMAIL" default:"true"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SOLIDMARKET_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"SOLIDMARKET_PUBSUB_DOMAIN_TOPIC" default:"sm-domain-events"`
	DomainSubscription string `envconfig:"SOLIDMARKET_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SOLIDMARKET_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SOLIDMARKET_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SOLIDMARKET_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
