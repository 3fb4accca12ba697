package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Firebase   FirebaseConfig
	JWT        JWTConfig
	Security   SecurityConfig
	Classifier ClassifierConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the store backend. Driver is one of
// firestore, mysql, postgres or memory; DSN is only read by the SQL drivers.
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
	// SingleSession rejects tokens superseded by a later login.
	SingleSession bool
}

type SecurityConfig struct {
	BcryptCost int
}

type ClassifierConfig struct {
	URL      string
	Timeout  time.Duration
	Fallback bool
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type LogConfig struct {
	Level string
}

const (
	DriverFirestore = "firestore"
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

var (
	ErrMissingSecret = errors.New("JWT_SECRET must be set")
	ErrUnknownDriver = errors.New("unknown DB_DRIVER")
	ErrMissingDSN    = errors.New("DB_DSN must be set for SQL drivers")
)

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "err", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			Env:             getEnv("APP_ENV", "development"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverFirestore),
			DSN:             getEnv("DB_DSN", ""),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			Expiry:        getEnvDuration("JWT_EXPIRY", 24*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "safepay"),
			SingleSession: getEnvBool("JWT_SINGLE_SESSION", true),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
		},
		Classifier: ClassifierConfig{
			URL:      getEnv("CLASSIFIER_URL", ""),
			Timeout:  getEnvDuration("CLASSIFIER_TIMEOUT", 5*time.Second),
			Fallback: getEnvBool("CLASSIFIER_FALLBACK", true),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingSecret
	}
	switch c.Database.Driver {
	case DriverFirestore, DriverMemory:
	case DriverMySQL, DriverPostgres:
		if c.Database.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return ErrUnknownDriver
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return def
	}
	return d
}
