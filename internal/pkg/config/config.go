package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   portal credentials, secrets)
// - default: Values common across all environments (timeouts, poll interval,
//   timezone, standard settings)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Portal   PortalConfig
	Schedule ScheduleConfig
	CORS     CORSConfig
	Log      LogConfig
	API      APIConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Europe/Amsterdam"`
}

type PortalConfig struct {
	BaseURL  string        `envconfig:"PORTAL_BASE_URL" default:"https://parkerendenhaag.denhaag.nl"`
	Username string        `envconfig:"PORTAL_USERNAME" required:"true"`
	Password string        `envconfig:"PORTAL_PASSWORD" required:"true"`
	Timeout  time.Duration `envconfig:"PORTAL_TIMEOUT" default:"20s"`
}

type ScheduleConfig struct {
	TimeZone     string        `envconfig:"SCHEDULE_TIMEZONE" default:"Europe/Amsterdam"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"1m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/Amsterdam"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"3600"` // 1*60*60
}

type APIConfig struct {
	Username      string        `envconfig:"API_USERNAME" required:"true"`
	PasswordHash  string        `envconfig:"API_PASSWORD_HASH" required:"true"`
	JWTSecret     string        `envconfig:"API_JWT_SECRET" required:"true"`
	TokenDuration time.Duration `envconfig:"API_TOKEN_DURATION" default:"24h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Europe/Amsterdam",
		},
		Portal: PortalConfig{
			BaseURL:  "http://localhost:18080",
			Username: "test",
			Password: "test",
			Timeout:  time.Second,
		},
		Schedule: ScheduleConfig{
			TimeZone:     "Europe/Amsterdam",
			PollInterval: time.Minute,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Europe/Amsterdam",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 3600,
		},
		API: APIConfig{
			Username:      "test",
			PasswordHash:  "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
			JWTSecret:     "test-secret",
			TokenDuration: time.Hour,
		},
	}
}
