package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port    string
	AppEnv  string
	TLSCert string
	TLSKey  string

	GoogleBooks GoogleBooks
	UseMock     bool

	DatabaseURL       string
	LogRetentionDays  int
	RetentionAt       string
	RetentionTimezone string

	RedisURL      string
	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RateRPS       float64
	RateBurst     int
	RateWindowMax int

	JWTSecret    string
	JWTIssuer    string
	JWTClockSkew time.Duration

	AllowedOrigins []string
}

type GoogleBooks struct {
	APIKey         string
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	RPS            float64
}

// Load reads the process environment. Call godotenv.Load first when a
// .env file should be honoured.
func Load() (Config, error) {
	var errs []string
	dur := func(key, def string) time.Duration {
		d, err := envDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return d
	}
	num := func(key string, def int) int {
		n, err := envInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return n
	}
	flt := func(key string, def float64) float64 {
		f, err := envFloat(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return f
	}

	cfg := Config{
		Port:    envOr("PORT", ":3000"),
		AppEnv:  envOr("APP_ENV", "development"),
		TLSCert: os.Getenv("TLS_CERT"),
		TLSKey:  os.Getenv("TLS_KEY"),

		GoogleBooks: GoogleBooks{
			APIKey:         os.Getenv("GOOGLE_BOOKS_API_KEY"),
			BaseURL:        os.Getenv("GOOGLE_BOOKS_BASE_URL"),
			ConnectTimeout: dur("GOOGLE_BOOKS_CONNECT_TIMEOUT", "10s"),
			ReadTimeout:    dur("GOOGLE_BOOKS_READ_TIMEOUT", "30s"),
			RPS:            flt("GOOGLE_BOOKS_RPS", 5),
		},
		UseMock: envBool("USE_MOCK_BOOKS"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogRetentionDays:  num("SEARCH_LOG_RETENTION_DAYS", 30),
		RetentionAt:       envOr("SEARCH_LOG_RETENTION_AT", "03:00"),
		RetentionTimezone: envOr("SEARCH_LOG_RETENTION_TZ", "Asia/Tokyo"),

		RedisURL:      os.Getenv("UPSTASH_REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisUser:     os.Getenv("REDIS_USER"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RateRPS:       flt("RATE_LIMIT_RPS", 5),
		RateBurst:     num("RATE_LIMIT_BURST", 20),
		RateWindowMax: num("RATE_LIMIT_HOURLY", 3000),

		JWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer:    os.Getenv("AUTH_JWT_ISSUER"),
		JWTClockSkew: time.Duration(num("AUTH_CLOCK_SKEW_SEC", 60)) * time.Second,

		AllowedOrigins: envList("CORS_ALLOWED_ORIGINS"),
	}
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// MockUpstream reports whether the fixed development catalogue replaces
// the real upstream.
func (c Config) MockUpstream() bool {
	return c.UseMock && strings.EqualFold(c.AppEnv, "development")
}

func (c Config) RedisConfigured() bool {
	return c.RedisURL != "" || c.RedisAddr != ""
}

func (c Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// --- helpers ---

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: not a number: %q", key, v)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: not a number: %q", key, v)
	}
	return f, nil
}

func envDuration(key, def string) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		fallback, _ := time.ParseDuration(def)
		return fallback, fmt.Errorf("%s: invalid duration %q", key, s)
	}
	return d, nil
}

func envList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
