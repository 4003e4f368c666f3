package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address       string
	MongoURI      string
	MongoDatabase string
	JaegerAddress string
	SecretKey     string
	TokenTTL      time.Duration
	BcryptCost    int
	LogLevel      string

	RateLimitPerSecond float64
	RateLimitBurst     int
	CORSOrigins        []string
	// TrustedProxies lists the peer IPs or CIDRs whose forwarding headers
	// identify the client. Empty means the peer address is always used.
	TrustedProxies []string

	// NotificationSweepInterval enables the background deactivation sweep
	// when positive. Zero keeps deactivation lazy (on save only).
	NotificationSweepInterval time.Duration
}

// GetConfig loads an optional .env file and reads the environment.
func GetConfig() Config {
	_ = godotenv.Load()

	return Config{
		Address:                   getEnv("SERVER_ADDRESS", ":8000"),
		MongoURI:                  getEnv("MONGO_DB_URI", "mongodb://localhost:27017"),
		MongoDatabase:             getEnv("MONGO_DB_NAME", "gestion"),
		JaegerAddress:             os.Getenv("JAEGER_ADDRESS"),
		SecretKey:                 os.Getenv("SECRET_KEY_AUTH"),
		TokenTTL:                  getDuration("TOKEN_TTL", 24*time.Hour),
		BcryptCost:                getInt("BCRYPT_COST", 12),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		RateLimitPerSecond:        getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:            getInt("RATE_LIMIT_BURST", 50),
		CORSOrigins:               getList("CORS_ORIGINS", []string{"*"}),
		TrustedProxies:            getList("TRUSTED_PROXIES", nil),
		NotificationSweepInterval: getDuration("NOTIFICATION_SWEEP_INTERVAL", 0),
	}
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY_AUTH must be set"))
	}
	for _, p := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(p); err != nil && net.ParseIP(p) == nil {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is neither an IP nor a CIDR", p))
		}
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
