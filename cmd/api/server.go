package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mw "github.com/5w1tchy/books-search/internal/api/middlewares"
	"github.com/5w1tchy/books-search/internal/api/router"
	"github.com/5w1tchy/books-search/internal/config"
	"github.com/5w1tchy/books-search/internal/googlebooks"
	"github.com/5w1tchy/books-search/internal/maintenance"
	"github.com/5w1tchy/books-search/internal/metrics/searchlog"
	"github.com/5w1tchy/books-search/internal/repository/sqlconnect"
	"github.com/5w1tchy/books-search/internal/search"
	jwtutil "github.com/5w1tchy/books-search/internal/security/jwt"
	"github.com/5w1tchy/books-search/internal/validate"
	"github.com/5w1tchy/books-search/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := validate.Env(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	for _, w := range validate.HardeningWarnings(cfg) {
		log.Printf("[config] warning: %s", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Upstream
	var upstream search.Upstream
	if cfg.MockUpstream() {
		log.Println("[googlebooks] USE_MOCK_BOOKS=true: serving the fixed development catalogue")
		upstream = googlebooks.NewMockClient()
	} else {
		upstream = googlebooks.New(googlebooks.Config{
			BaseURL:           cfg.GoogleBooks.BaseURL,
			APIKey:            cfg.GoogleBooks.APIKey,
			ConnectTimeout:    cfg.GoogleBooks.ConnectTimeout,
			ReadTimeout:       cfg.GoogleBooks.ReadTimeout,
			RequestsPerSecond: cfg.GoogleBooks.RPS,
		})
	}
	deps := router.Deps{Search: search.NewService(upstream)}

	// Search log (optional)
	var (
		db    *sql.DB
		queue *searchlog.Queue
	)
	if cfg.DatabaseURL != "" {
		db, err = sqlconnect.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		fmt.Println("✅ Connected to Postgres")

		if err := searchlog.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("search log schema: %v", err)
		}
		queue = searchlog.Start(db, searchlog.Options{Buffer: 10000, Workers: 2})
		maintenance.StartSearchLogRetention(ctx, db, cfg.LogRetentionDays, cfg.RetentionAt, cfg.RetentionTimezone)

		deps.SearchLog = queue
		deps.Stats = queue
		deps.DB = db
	}

	// Bearer guard (optional)
	if cfg.JWTSecret != "" {
		v, err := jwtutil.NewVerifier(jwtutil.Config{
			Secret:    []byte(cfg.JWTSecret),
			ClockSkew: cfg.JWTClockSkew,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			log.Fatalf("jwt: %v", err)
		}
		deps.Auth = v
	}

	chain := []utils.Middleware{
		mw.RequestID,
		mw.Recovery,
		mw.Cors(cfg.AllowedOrigins),
		mw.ResponseTimeMiddleware,
		mw.HPP(mw.DefaultHPPOptions()),
	}

	// Rate limiting (optional)
	if cfg.RedisConfigured() {
		rdb := newRedis(cfg)
		defer rdb.Close()
		if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		fmt.Println("✅ Connected to Redis")

		tb := mw.NewRedisTokenBucket(rdb, cfg.RateRPS, cfg.RateBurst, mw.PerIPKey("tb"))
		sw := mw.NewRedisSlidingWindow(rdb, cfg.RateWindowMax, 60*time.Minute, mw.PerIPKey("sw"))
		chain = append(chain, tb.Middleware, sw.Middleware)
	}

	chain = append(chain, mw.Compression, mw.SecurityHeaders)
	secureMux := utils.ApplyMiddleware(router.Router(deps), chain...)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           secureMux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// a request may spend up to six upstream calls
		WriteTimeout: cfg.GoogleBooks.ReadTimeout*6 + 10*time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	go func() {
		fmt.Println("Server is running on port:", cfg.Port)
		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	if queue != nil {
		queue.Shutdown()
		written, dropped := queue.Stats()
		log.Printf("[searchlog] written=%d dropped=%d", written, dropped)
	}
}

func newRedis(cfg config.Config) *redis.Client {
	if cfg.RedisURL != "" {
		// Path A: full Upstash URL (recommended)
		opt, err := redis.ParseURL(cfg.RedisURL) // e.g. rediss://default:<token>@host:port
		if err != nil {
			log.Fatalf("invalid UPSTASH_REDIS_URL: %v", err)
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt)
	}

	// Path B: split fields
	opt := &redis.Options{
		Addr:         cfg.RedisAddr,
		Username:     cfg.RedisUser,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if cfg.RedisPassword != "" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opt)
}
