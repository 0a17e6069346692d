package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Storage  Storage  `envPrefix:"MINIO_"`
	Redis    Redis    `envPrefix:"REDIS_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters. The DSN has no default:
// the process refuses to start without it.
type Database struct {
	DSN string `env:"DSN,required"`
}

// JWT contains session token parameters. The signing secret has no default.
type JWT struct {
	Secret string `env:"SECRET,required"`
}

// Storage contains object storage parameters.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"nextnode-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"nextnode-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"blog-images"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:9000"`
}

// Redis contains request cache parameters. An empty address disables the cache.
type Redis struct {
	Addr     string `env:"ADDR"`
	CacheTTL int    `env:"CACHE_TTL_SECONDS" envDefault:"60"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
