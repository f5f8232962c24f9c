package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultSessionSecret = "change-me"

// Config is built once at startup and passed by pointer to the components
// that need it. Nothing mutates it afterwards.
type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTP     HTTPConfig
	Database DatabaseConfig
	Session  SessionConfig
	Password PasswordConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:""`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" env-default:"postgres"`
	Host       string `env:"DB_HOST" env-default:"localhost"`
	Port       string `env:"DB_PORT" env-default:"5432"`
	User       string `env:"DB_USER" env-default:"tasks_user"`
	Password   string `env:"DB_PASSWORD" env-default:"tasks_pass"`
	Name       string `env:"DB_NAME" env-default:"tasks_db"`
	SSLMode    string `env:"DB_SSL_MODE" env-default:"disable"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"tasks.db"`
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET" env-default:"change-me"`
	TTL        time.Duration `env:"SESSION_TTL" env-default:"168h"`
	CookieName string        `env:"SESSION_COOKIE" env-default:"session"`
	Secure     bool          `env:"SESSION_SECURE" env-default:"false"`
}

type PasswordConfig struct {
	Iterations int `env:"PASSWORD_ITERATIONS" env-default:"600000"`
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env: %q", c.Env)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	if c.Session.Secret == "" {
		return errors.New("session secret must not be empty")
	}
	if c.Env == EnvProd && c.Session.Secret == defaultSessionSecret {
		return errors.New("session secret must be set in prod")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Password.Iterations <= 0 {
		return errors.New("password iterations must be positive")
	}
	return nil
}
