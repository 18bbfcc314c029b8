package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/wee-saviya/cliparse"
	"github.com/danielhkuo/wee-saviya/db"
	"github.com/danielhkuo/wee-saviya/handlers"
	"github.com/danielhkuo/wee-saviya/knowledge"
	"github.com/danielhkuo/wee-saviya/proxy"
	"github.com/danielhkuo/wee-saviya/ratelimit"
	"github.com/danielhkuo/wee-saviya/router"
	"github.com/danielhkuo/wee-saviya/tour"
)

func main() {
	// A missing .env is fine; real environment variables still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg cliparse.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

func run(cfg cliparse.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load static tables
	store, err := loadKnowledge(cfg.KnowledgeFile)
	if err != nil {
		return err
	}
	catalog, err := loadTours(cfg.ToursFile)
	if err != nil {
		return err
	}

	// Optional completion storage
	var completions handlers.CompletionStore
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := db.CreateSchema(dbConn); err != nil {
			return fmt.Errorf("schema creation failed: %w", err)
		}
		slog.Info("Database schema ready", "type", cfg.DatabaseType)
		completions = newCompletionStore(dbConn, cfg.DatabaseType)
	} else {
		slog.Info("no database configured; tour completions will not be stored")
	}

	// Rate limiter store, shared through Redis when configured
	limiterStore, closeStore, err := newLimiterStore(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer closeStore()

	// Every workflow call goes to one host; keep more idle connections to it
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 32
	opts := []proxy.Option{
		proxy.WithHTTPClient(&http.Client{Transport: transport}),
		proxy.WithTimeout(cfg.UpstreamTimeout),
	}
	if cfg.WebhookSecret != "" {
		opts = append(opts, proxy.WithSecret(cfg.WebhookSecret))
	}
	client := proxy.NewClient(cfg.WebhookURL, opts...)

	limiter := ratelimit.New(limiterStore, cfg.RateLimitMax, cfg.RateLimitWindow)
	handler := router.NewRouter(router.Deps{
		Knowledge:   store,
		Tours:       catalog,
		Proxy:       proxy.New(client),
		Limiter:     limiter,
		Completions: completions,
	}, cfg)

	// Create server
	server := &http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"webhook", cfg.WebhookURL,
			"body_limit", humanize.Bytes(uint64(cfg.BodyLimit)),
			"rate_limit", fmt.Sprintf("%d per %s", limiter.Limit(), limiter.Window()),
			"ws_inflight", cfg.WSMaxInflight,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Wait for Ctrl-C signal or a failed listener
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server closed")
	return nil
}

func loadKnowledge(path string) (*knowledge.Store, error) {
	if path == "" {
		return knowledge.Default()
	}
	slog.Info("loading knowledge tables", "file", path)
	return knowledge.LoadFile(path)
}

func loadTours(path string) (*tour.Catalog, error) {
	if path == "" {
		return tour.Default()
	}
	slog.Info("loading tour catalog", "file", path)
	return tour.LoadFile(path)
}

func newCompletionStore(conn *sql.DB, dbType string) handlers.CompletionStore {
	return db.NewCompletionStore(conn, dbType)
}

func newLimiterStore(ctx context.Context, redisURL string) (ratelimit.Store, func(), error) {
	if redisURL == "" {
		return ratelimit.NewMemoryStore(), func() {}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("rate limiting through Redis", "addr", opts.Addr)
	return ratelimit.NewRedisStore(client), func() { client.Close() }, nil
}
