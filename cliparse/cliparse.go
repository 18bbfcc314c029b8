package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Runtime modes
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type Config struct {
	Port            int
	WebhookURL      string
	WebhookSecret   string
	AllowedOrigins  []string
	Environment     string
	UpstreamTimeout time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration
	WSMaxInflight   int
	BodyLimit       int64
	DatabaseURL     string
	DatabaseType    string
	RedisURL        string
	KnowledgeFile   string
	ToursFile       string
}

// IsProduction reports whether internal error details must be hidden
func (c Config) IsProduction() bool {
	return c.Environment == ModeProduction
}

// ParseFlags reads flags and falls back to environment variables, then defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins, timeout, window, bodyLimit string

	fs := flag.NewFlagSet("wee-saviya", flag.ContinueOnError)

	// Network config
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&origins, "origins", "", "Comma-separated allowed CORS origins")
	fs.StringVar(&cfg.Environment, "env", "", "Runtime mode (development or production)")
	fs.StringVar(&bodyLimit, "body-limit", "", "Max JSON body size, e.g. 10MB")

	// Workflow backend
	fs.StringVar(&cfg.WebhookURL, "webhook-url", "", "Workflow webhook base URL")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", "", "HMAC secret for webhook payloads (prefer env)")
	fs.StringVar(&timeout, "timeout", "", "Upstream call timeout, e.g. 30s")

	// Rate limiting
	fs.IntVar(&cfg.RateLimitMax, "rate-limit", 0, "Requests allowed per client per window")
	fs.StringVar(&window, "rate-window", "", "Rate limit window, e.g. 15m")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL for shared rate limiting")
	fs.IntVar(&cfg.WSMaxInflight, "ws-inflight", 0, "Concurrent workflow calls per WebSocket connection")

	// Storage
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL for tour completions")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Data tables
	fs.StringVar(&cfg.KnowledgeFile, "knowledge", "", "Knowledge tables YAML file")
	fs.StringVar(&cfg.ToursFile, "tours", "", "Tour catalog YAML file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	cfg.WebhookURL = firstNonEmpty(cfg.WebhookURL, os.Getenv("N8N_WEBHOOK_URL"), "http://localhost:5678/webhook")
	cfg.WebhookSecret = firstNonEmpty(cfg.WebhookSecret, os.Getenv("WEBHOOK_SECRET"))
	cfg.Environment = firstNonEmpty(cfg.Environment, os.Getenv("NODE_ENV"), ModeDevelopment)
	cfg.RedisURL = firstNonEmpty(cfg.RedisURL, os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite")
	cfg.KnowledgeFile = firstNonEmpty(cfg.KnowledgeFile, os.Getenv("KNOWLEDGE_FILE"))
	cfg.ToursFile = firstNonEmpty(cfg.ToursFile, os.Getenv("TOURS_FILE"))

	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("database type must be sqlite or postgres, got %q", cfg.DatabaseType)
	}

	cfg.AllowedOrigins = splitList(firstNonEmpty(origins, os.Getenv("ALLOWED_ORIGINS"), "*"))

	var err error
	cfg.UpstreamTimeout, err = parseDuration("UPSTREAM_TIMEOUT", firstNonEmpty(timeout, os.Getenv("UPSTREAM_TIMEOUT"), "30s"))
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitWindow, err = parseDuration("RATE_LIMIT_WINDOW", firstNonEmpty(window, os.Getenv("RATE_LIMIT_WINDOW"), "15m"))
	if err != nil {
		return Config{}, err
	}

	if cfg.RateLimitMax == 0 {
		if maxStr := os.Getenv("RATE_LIMIT_MAX"); maxStr != "" {
			max, err := strconv.Atoi(maxStr)
			if err != nil || max < 1 {
				return Config{}, errors.New("invalid RATE_LIMIT_MAX env variable")
			}
			cfg.RateLimitMax = max
		} else {
			cfg.RateLimitMax = 100
		}
	}
	if cfg.RateLimitMax < 1 {
		return Config{}, errors.New("rate limit must be positive")
	}

	if cfg.WSMaxInflight == 0 {
		if nStr := os.Getenv("WS_MAX_INFLIGHT"); nStr != "" {
			n, err := strconv.Atoi(nStr)
			if err != nil || n < 1 {
				return Config{}, errors.New("invalid WS_MAX_INFLIGHT env variable")
			}
			cfg.WSMaxInflight = n
		} else {
			cfg.WSMaxInflight = 4
		}
	}
	if cfg.WSMaxInflight < 1 {
		return Config{}, errors.New("websocket in-flight limit must be positive")
	}

	limit, err := humanize.ParseBytes(firstNonEmpty(bodyLimit, os.Getenv("BODY_LIMIT"), "10MB"))
	if err != nil || limit == 0 {
		return Config{}, errors.New("invalid body limit")
	}
	cfg.BodyLimit = int64(limit)

	return cfg, nil
}

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
