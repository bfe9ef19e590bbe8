package validate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/5w1tchy/books-search/internal/config"
	"github.com/redis/go-redis/v9"
)

// Env validates the loaded configuration. Fail-fast on bad config.
func Env(cfg config.Config) error {
	// JWT is optional, but a configured secret must be reasonably long
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters")
	}

	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return errors.New("TLS_CERT and TLS_KEY must be set together")
	}

	if raw := cfg.GoogleBooks.BaseURL; raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("GOOGLE_BOOKS_BASE_URL: invalid URL %q", raw)
		}
	}
	if cfg.GoogleBooks.RPS < 0 {
		return errors.New("GOOGLE_BOOKS_RPS must be >= 0")
	}
	if cfg.LogRetentionDays < 1 {
		return errors.New("SEARCH_LOG_RETENTION_DAYS must be >= 1")
	}
	if cfg.RedisConfigured() && (cfg.RateRPS <= 0 || cfg.RateBurst < 1 || cfg.RateWindowMax < 1) {
		return errors.New("RATE_LIMIT_RPS, RATE_LIMIT_BURST and RATE_LIMIT_HOURLY must be positive")
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings you may want to log on startup.
func HardeningWarnings(cfg config.Config) []string {
	var warns []string

	if cfg.GoogleBooks.APIKey == "" && !cfg.MockUpstream() {
		warns = append(warns, "GOOGLE_BOOKS_API_KEY not set; every search will answer with an API key error")
	}
	if cfg.UseMock && !cfg.MockUpstream() {
		warns = append(warns, fmt.Sprintf("USE_MOCK_BOOKS ignored outside development (APP_ENV=%s)", cfg.AppEnv))
	}
	if cfg.DatabaseURL == "" {
		warns = append(warns, "DATABASE_URL not set; search log disabled")
	}
	if !cfg.RedisConfigured() {
		warns = append(warns, "no Redis configured; per-client rate limiting disabled")
	}

	// Production-specific nudges
	if strings.EqualFold(cfg.AppEnv, "production") {
		if cfg.JWTSecret == "" {
			warns = append(warns, "AUTH_JWT_SECRET not set; /search/external is public")
		}
		if !cfg.TLSEnabled() {
			warns = append(warns, "TLS_CERT/TLS_KEY not set; serving plain HTTP")
		}
		if strings.HasPrefix(cfg.RedisURL, "redis://") {
			warns = append(warns, "UPSTASH_REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if cfg.RedisURL == "" && cfg.RedisAddr != "" && (cfg.RedisUser == "" || cfg.RedisPassword == "") {
			warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
		}
	}

	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	return err
}
