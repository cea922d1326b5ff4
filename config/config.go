package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// State drivers.
const (
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Env  string
	Port string

	ShopAPIURL     string
	ShopAPITimeout time.Duration

	SessionSecret []byte
	SessionTTL    time.Duration

	StateDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDB       string

	CartMergePolicy string
	AllowedOrigins  []string
	PublicBaseURL   string

	BrandName      string
	WhatsAppNumber string
	SupportEmail   string

	TrackPollInterval time.Duration

	// requests per second and burst, per session or client address
	RateLimit float64
	RateBurst int
	// TrustProxy honours X-Forwarded-For when keying rate limits.
	TrustProxy bool
}

func (c Config) Development() bool {
	return c.Env == "development"
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can feed maps.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Env:             get("APP_ENV", "production"),
		Port:            get("PORT", ":8080"),
		ShopAPIURL:      strings.TrimRight(get("SHOP_API_URL", "http://localhost:5000"), "/"),
		StateDriver:     get("STATE_DRIVER", DriverRedis),
		RedisAddr:       get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD"),
		MongoURI:        get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         get("MONGO_DB", "storefront"),
		CartMergePolicy: get("CART_MERGE_POLICY", "merge"),
		PublicBaseURL:   strings.TrimRight(get("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		BrandName:       get("BRAND_NAME", "TryneX"),
		WhatsAppNumber:  get("WHATSAPP_NUMBER", "01747292277"),
		SupportEmail:    get("SUPPORT_EMAIL", "support@trynex.com"),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}

	var err error
	if cfg.ShopAPITimeout, err = duration(get("SHOP_API_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("SHOP_API_TIMEOUT: %w", err)
	}
	if cfg.SessionTTL, err = duration(get("SESSION_TTL", "720h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.TrackPollInterval, err = duration(get("TRACK_POLL_INTERVAL", "15s")); err != nil {
		return Config{}, fmt.Errorf("TRACK_POLL_INTERVAL: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return Config{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(get("RATE_LIMIT", "5"), 64); err != nil || cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT: must be a positive number")
	}
	if cfg.RateBurst, err = strconv.Atoi(get("RATE_BURST", "20")); err != nil || cfg.RateBurst < 1 {
		return Config{}, fmt.Errorf("RATE_BURST: must be a positive integer")
	}
	if cfg.TrustProxy, err = strconv.ParseBool(get("TRUST_PROXY", "false")); err != nil {
		return Config{}, fmt.Errorf("TRUST_PROXY: %w", err)
	}

	switch cfg.StateDriver {
	case DriverRedis, DriverMongo, DriverMemory:
	default:
		return Config{}, fmt.Errorf("STATE_DRIVER: unknown driver %q", cfg.StateDriver)
	}
	switch cfg.CartMergePolicy {
	case "merge", "append":
	default:
		return Config{}, fmt.Errorf("CART_MERGE_POLICY: unknown policy %q", cfg.CartMergePolicy)
	}

	for _, o := range strings.Split(get("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	secret := getenv("SESSION_SECRET")
	if secret == "" {
		if !cfg.Development() {
			return Config{}, fmt.Errorf("SESSION_SECRET is required outside development")
		}
		secret = "dev-session-secret"
	}
	cfg.SessionSecret = []byte(secret)

	return cfg, nil
}

func duration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}
