package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:"0.0.0.0:8080"`

	Postgres Postgres `envconfig:""`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	TxMaxRetries     uint64        `envconfig:"TX_MAX_RETRIES" default:"5"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	ViewCountTimeout time.Duration `envconfig:"VIEW_COUNT_TIMEOUT" default:"2s"`
	AllowedOrigins   []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Postgres is the subset of the configuration the one-shot jobs need.
type Postgres struct {
	Host         string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port         string `envconfig:"POSTGRES_PORT" default:"5432"`
	User         string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password     string `envconfig:"POSTGRES_PASSWORD"`
	DB           string `envconfig:"POSTGRES_DB" default:"inappvote"`
	SSLMode      string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadPostgres is Load for processes that only talk to the database.
func LoadPostgres() (Postgres, error) {
	_ = godotenv.Load()

	var pg Postgres
	if err := envconfig.Process("", &pg); err != nil {
		return Postgres{}, fmt.Errorf("failed to load postgres config: %w", err)
	}
	return pg, nil
}

func (c Config) PostgresDSN() string {
	return c.Postgres.DSN()
}

func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.DB,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}
