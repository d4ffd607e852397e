package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/habitkit/habit-tracker-api/internal/constants"
)

// Remote store drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var defaultProductionOrigins = []string{
	"https://dimkandin.github.io",
	"https://habit-tracker.railway.app",
	"http://localhost:3000",
}

type Config struct {
	Environment string
	Port        string
	GinMode     string
	Debug       bool
	LogLevel    string
	LogFile     string

	LocalDBPath string

	RemoteDriver      string
	DatabaseURL       string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime time.Duration
	DBConnectTimeout  time.Duration
	StoreTimeout      time.Duration

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	SessionSecret string
	RedisHost     string
	RedisPort     string

	FrontendURL string
	CORSOrigins []string

	OpenAIAPIKey string
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", constants.EnvDevelopment)
	v.SetDefault("PORT", "5001")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOCAL_DB_PATH", "data/habits.db")
	v.SetDefault("REMOTE_DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	v.SetDefault("DB_CONNECT_TIMEOUT", 2*time.Second)
	v.SetDefault("STORE_TIMEOUT", 5*time.Second)
	v.SetDefault("TOKEN_TTL", time.Duration(0))
	v.SetDefault("BCRYPT_COST", constants.DefaultBcryptCost)
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")

	// libpq-style names are accepted as aliases.
	aliases := map[string][]string{
		"DB_HOST":     {"DB_HOST", "PGHOST"},
		"DB_PORT":     {"DB_PORT", "PGPORT"},
		"DB_USER":     {"DB_USER", "PGUSER"},
		"DB_PASSWORD": {"DB_PASSWORD", "PGPASSWORD"},
		"DB_NAME":     {"DB_NAME", "PGDATABASE"},
	}
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Environment:       strings.ToLower(v.GetString("APP_ENV")),
		Port:              v.GetString("PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		Debug:             v.GetBool("DEBUG"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFile:           v.GetString("LOG_FILE"),
		LocalDBPath:       v.GetString("LOCAL_DB_PATH"),
		RemoteDriver:      strings.ToLower(v.GetString("REMOTE_DB_DRIVER")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		DBConnectTimeout:  v.GetDuration("DB_CONNECT_TIMEOUT"),
		StoreTimeout:      v.GetDuration("STORE_TIMEOUT"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		BcryptCost:        v.GetInt("BCRYPT_COST"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetString("REDIS_PORT"),
		FrontendURL:       v.GetString("FRONTEND_URL"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at connect time.
func (c *Config) Validate() error {
	switch c.Environment {
	case constants.EnvDevelopment, constants.EnvProduction:
	default:
		return fmt.Errorf("invalid APP_ENV %q: expected %s or %s", c.Environment, constants.EnvDevelopment, constants.EnvProduction)
	}
	switch c.RemoteDriver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("invalid REMOTE_DB_DRIVER %q: expected %s or %s", c.RemoteDriver, DriverPostgres, DriverMySQL)
	}
	if c.IsProduction() && !c.RemoteConfigured() {
		return fmt.Errorf("production requires a remote store: set DATABASE_URL or DB_HOST")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == constants.EnvProduction
}

// LocalEnabled reports whether the local SQLite store should be opened.
func (c *Config) LocalEnabled() bool {
	return !c.IsProduction() && c.LocalDBPath != ""
}

// RemoteConfigured reports whether connection settings for the remote store exist.
func (c *Config) RemoteConfigured() bool {
	return c.DatabaseURL != "" || c.DBHost != ""
}

// Diagnostics reports whether internal error details may be returned to clients.
func (c *Config) Diagnostics() bool {
	return c.Debug || c.GinMode == "debug"
}

// AllowedOrigins returns the CORS origins for the current environment.
func (c *Config) AllowedOrigins() []string {
	if len(c.CORSOrigins) > 0 {
		return c.CORSOrigins
	}
	if c.IsProduction() {
		return defaultProductionOrigins
	}
	return []string{c.FrontendURL}
}

// RemoteDSN builds the DSN for the remote driver.
func (c *Config) RemoteDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	timeout := int(c.DBConnectTimeout.Seconds())
	if timeout < 1 {
		timeout = 1
	}

	switch c.RemoteDriver {
	case DriverMySQL:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%ds",
			c.DBUser,
			c.DBPassword,
			c.DBHost,
			port,
			c.DBName,
			timeout,
		)
	default:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.DBUser, c.DBPassword),
			Host:   c.DBHost + ":" + port,
			Path:   "/" + c.DBName,
		}
		q := u.Query()
		q.Set("sslmode", c.DBSSLMode)
		q.Set("connect_timeout", fmt.Sprint(timeout))
		u.RawQuery = q.Encode()
		return u.String()
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
