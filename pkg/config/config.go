package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the envconfig namespace for every variable below.
	EnvPrefix = "OURTHEN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "OURTHEN_DB_DSN"
	EnvDBHost = "OURTHEN_DB_HOST"
	EnvDBUser = "OURTHEN_DB_USER"
	EnvDBName = "OURTHEN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"OURTHEN_APP_ENV" required:"true"`
	Port         string `envconfig:"OURTHEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OURTHEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OURTHEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OURTHEN_DB_DSN"`
	Driver string `envconfig:"OURTHEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OURTHEN_DB_HOST"`
	LegacyPort     int    `envconfig:"OURTHEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OURTHEN_DB_USER"`
	LegacyPassword string `envconfig:"OURTHEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"OURTHEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"OURTHEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OURTHEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OURTHEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OURTHEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OURTHEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OURTHEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OURTHEN_REDIS_ADDR"`
	Password     string        `envconfig:"OURTHEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"OURTHEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OURTHEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OURTHEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OURTHEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OURTHEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OURTHEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig holds the verification parameters for tokens the identity
// provider signs. This service never mints tokens.
type JWTConfig struct {
	Secret string `envconfig:"OURTHEN_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"OURTHEN_JWT_ISSUER" required:"true"`
}

type RateLimitConfig struct {
	JoinWindow     time.Duration `envconfig:"OURTHEN_RATE_LIMIT_JOIN_WINDOW" default:"1m"`
	JoinUserLimit  int           `envconfig:"OURTHEN_RATE_LIMIT_JOIN_USER_LIMIT" default:"10"`
	JoinIPLimit    int           `envconfig:"OURTHEN_RATE_LIMIT_JOIN_IP_LIMIT" default:"30"`
	WriteWindow    time.Duration `envconfig:"OURTHEN_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteUserLimit int           `envconfig:"OURTHEN_RATE_LIMIT_WRITE_USER_LIMIT" default:"60"`
	WriteIPLimit   int           `envconfig:"OURTHEN_RATE_LIMIT_WRITE_IP_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OURTHEN_AUTO_MIGRATE" default:"false"`
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
