package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	MongoURI string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB  string `envconfig:"MONGO_DB" default:"ecommerce"`

	// Vacío usa el caché en memoria
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	MigrationBatchSize int           `envconfig:"MIGRATION_BATCH_SIZE" default:"1000"`
	CORSOrigin         string        `envconfig:"CORS_ORIGIN" default:"*"`
}

func LoadConfig() (*Config, error) {
	// Solo cargar .env en desarrollo local
	// En producción las variables vienen del entorno
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			slog.Warn("⚠️ Error loading .env file", slog.Any("error", err))
		} else {
			slog.Info("✅ .env file loaded successfully")
		}
	} else {
		slog.Info("🌐 Using system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI must be provided")
	}
	if cfg.MigrationBatchSize < 1 {
		return nil, errors.New("MIGRATION_BATCH_SIZE must be positive")
	}
	return &cfg, nil
}

// IsProduction indica si la app corre en producción
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Addr devuelve la dirección de escucha del servidor
func (c *Config) Addr() string {
	return ":" + c.Port
}
