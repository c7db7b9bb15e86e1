package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lumina-backend/internal/platform/gcp"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/ratelimit"
	"github.com/yungbote/lumina-backend/internal/platform/sendgrid"
)

// Clients are the external systems. Each one is optional: a nil field means
// the feature it backs runs in its degraded mode.
type Clients struct {
	Redis   goredis.UniversalClient
	Bucket  gcp.BucketService
	Email   sendgrid.Client
	Limiter ratelimit.Limiter
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		out.Redis = rdb
	}

	// Rate limiting
	limitCfg := ratelimit.Config{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}
	if out.Redis != nil {
		out.Limiter = ratelimit.NewRedisLimiter(out.Redis, "lumina:ratelimit", limitCfg)
	} else {
		log.Warn("REDIS_ADDR not set; rate limits are per process")
		out.Limiter = ratelimit.NewMemoryLimiter(limitCfg)
	}

	// Gcs
	if cfg.StorageConfigured() {
		bucket, err := resolveBucketService(log, cfg)
		if err != nil {
			out.Close()
			return Clients{}, err
		}
		out.Bucket = bucket
	} else {
		log.Warn("GCS buckets not configured; avatar and media uploads are disabled")
	}

	// SendGrid
	email, err := sendgrid.NewFromEnv(log)
	switch {
	case errors.Is(err, sendgrid.ErrNotConfigured):
		log.Warn("SENDGRID_API_KEY not set; email jobs will be skipped")
	case err != nil:
		out.Close()
		return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
	default:
		out.Email = email
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
