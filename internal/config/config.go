package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the blog API.
type Config struct {
	AppPort     string
	DBDriver    string // "postgres" or "sqlite"
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	CORSOrigins []string
	UploadsDir  string
	RabbitMQURL string // empty disables post activity events
	RedisURL    string // empty disables token revocation
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment variables")
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=blog port=5432 sslmode=disable")
	v.SetDefault("JWT_EXPIRY", "24h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("UPLOADS_DIR", "uploads")
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTExpiry:   v.GetDuration("JWT_EXPIRY"),
		UploadsDir:  v.GetString("UPLOADS_DIR"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		RedisURL:    v.GetString("REDIS_URL"),
	}

	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
		}
	}

	if cfg.AppPort == "" {
		cfg.AppPort = ":5000"
	} else if !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}
	if cfg.JWTExpiry <= 0 {
		cfg.JWTExpiry = 24 * time.Hour
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}
