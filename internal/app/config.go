package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/yungbote/lumina-backend/internal/data/db"
)

type Config struct {
	LogMode     string `env:"LOG_MODE,default=development"`
	Port        string `env:"PORT,default=8080"`
	ServiceName string `env:"OTEL_SERVICE_NAME,default=lumina-api"`
	Environment string `env:"APP_ENV,default=development"`
	Version     string `env:"APP_VERSION,default=dev"`

	PostgresHost     string `env:"POSTGRES_HOST,default=localhost"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER,default=postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME,default=lumina"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE,default=disable"`

	JWTSecretKey    string        `env:"JWT_SECRET_KEY"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=5m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=24h"`

	PageSize           int           `env:"PAGE_SIZE,default=12"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=15s"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=20"`
	RedisAddr      string  `env:"REDIS_ADDR"`
	RedisPassword  string  `env:"REDIS_PASSWORD"`
	RedisDB        int     `env:"REDIS_DB,default=0"`

	ObjectStorageMode   string `env:"OBJECT_STORAGE_MODE"`
	StorageEmulatorHost string `env:"STORAGE_EMULATOR_HOST"`
	AvatarBucket        string `env:"AVATAR_GCS_BUCKET_NAME"`
	MediaBucket         string `env:"MEDIA_GCS_BUCKET_NAME"`
	AvatarCDNDomain     string `env:"AVATAR_CDN_DOMAIN"`
	MediaCDNDomain      string `env:"MEDIA_CDN_DOMAIN"`

	JobRetention time.Duration `env:"JOB_RETENTION,default=168h"`
}

// LoadConfig reads an optional dotenv file (ENV_FILE, default .env) into the
// process environment and decodes Config from it. Variables already set in
// the environment win over the file.
func LoadConfig() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		if c.LogMode == "production" {
			return fmt.Errorf("JWT_SECRET_KEY is required in production")
		}
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}

// JWTSecret falls back to a fixed development key outside production.
func (c Config) JWTSecret() string {
	if s := strings.TrimSpace(c.JWTSecretKey); s != "" {
		return s
	}
	return "lumina-development-secret"
}

func (c Config) Postgres() db.PostgresConfig {
	return db.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Name:     c.PostgresName,
		SSLMode:  c.PostgresSSLMode,
	}
}

func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// StorageConfigured reports whether both GCS buckets are named. Without
// them uploads are disabled rather than failing startup.
func (c Config) StorageConfigured() bool {
	return strings.TrimSpace(c.AvatarBucket) != "" && strings.TrimSpace(c.MediaBucket) != ""
}
