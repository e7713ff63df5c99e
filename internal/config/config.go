// Package config reads the service configuration from FLEETCOST_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment variable names.
const (
	EnvPort               = "FLEETCOST_PORT"
	EnvGRPCHealthPort     = "FLEETCOST_GRPC_HEALTH_PORT"
	EnvDatabaseURL        = "FLEETCOST_DATABASE_URL"
	EnvSeedPath           = "FLEETCOST_SEED_PATH"
	EnvSeedOnStart        = "FLEETCOST_SEED_ON_START"
	EnvCatalogCacheTTL    = "FLEETCOST_CATALOG_CACHE_TTL"
	EnvCORSAllowedOrigins = "FLEETCOST_CORS_ALLOWED_ORIGINS"
	EnvTrustedProxies     = "FLEETCOST_TRUSTED_PROXIES"
	EnvRateLimitRPS       = "FLEETCOST_RATE_LIMIT_RPS"
	EnvRateLimitBurst     = "FLEETCOST_RATE_LIMIT_BURST"
	EnvLogLevel           = "FLEETCOST_LOG_LEVEL"
	EnvLogFormat          = "FLEETCOST_LOG_FORMAT"
)

// Config holds the service settings.
type Config struct {
	Port           int
	GRPCHealthPort int // 0 disables the gRPC health server
	// DatabaseURL selects PostgreSQL; empty means the in-memory store.
	DatabaseURL string
	SeedPath    string
	SeedOnStart bool
	// CatalogCacheTTL of zero disables the catalog snapshot cache.
	CatalogCacheTTL time.Duration

	AllowedOrigins  []string
	AllowAllOrigins bool

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is the client address.
	TrustedProxies []string

	// RateLimitRPS of zero disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  zerolog.Level
	LogFormat string
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Port:            8080,
		SeedPath:        "database/seed-data.json",
		SeedOnStart:     true,
		CatalogCacheTTL: 30 * time.Second,
		RateLimitRPS:    20,
		RateLimitBurst:  40,
		LogLevel:        zerolog.InfoLevel,
		LogFormat:       "json",
	}
}

// Load reads the environment on top of Default. Malformed values log a
// warning and keep their default; only settings that cannot work together
// return an error.
func Load(logger zerolog.Logger) (Config, error) {
	cfg := Default()

	cfg.Port = intEnv(logger, EnvPort, cfg.Port)
	cfg.GRPCHealthPort = intEnv(logger, EnvGRPCHealthPort, cfg.GRPCHealthPort)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv(EnvDatabaseURL))
	if v := strings.TrimSpace(os.Getenv(EnvSeedPath)); v != "" {
		cfg.SeedPath = v
	}
	cfg.SeedOnStart = boolEnv(logger, EnvSeedOnStart, cfg.SeedOnStart)

	if v := os.Getenv(EnvCatalogCacheTTL); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			cfg.CatalogCacheTTL = parsed
		} else {
			logger.Warn().Str("value", v).Msgf("invalid %s, using default", EnvCatalogCacheTTL)
		}
	}

	if origins := os.Getenv(EnvCORSAllowedOrigins); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed == "*" {
				cfg.AllowAllOrigins = true
				continue
			}
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
		if cfg.AllowAllOrigins {
			logger.Warn().Msg("CORS wildcard origin (*) is insecure; use specific origins in production")
		}
	}

	if proxies := os.Getenv(EnvTrustedProxies); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed == "" {
				continue
			}
			if !validProxy(trimmed) {
				logger.Warn().Str("value", trimmed).Msgf("invalid entry in %s, ignoring", EnvTrustedProxies)
				continue
			}
			cfg.TrustedProxies = append(cfg.TrustedProxies, trimmed)
		}
	}

	if v := os.Getenv(EnvRateLimitRPS); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			cfg.RateLimitRPS = parsed
		} else {
			logger.Warn().Str("value", v).Msgf("invalid %s, using default", EnvRateLimitRPS)
		}
	}
	cfg.RateLimitBurst = intEnv(logger, EnvRateLimitBurst, cfg.RateLimitBurst)

	if v := os.Getenv(EnvLogLevel); v != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil && lvl != zerolog.NoLevel {
			cfg.LogLevel = lvl
		} else {
			logger.Warn().Str("value", v).Msgf("invalid %s, using info", EnvLogLevel)
		}
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))); v != "" {
		if v == "json" || v == "console" {
			cfg.LogFormat = v
		} else {
			logger.Warn().Str("value", v).Msgf("invalid %s, using json", EnvLogFormat)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logger.Debug().
		Int("port", cfg.Port).
		Int("grpc_health_port", cfg.GRPCHealthPort).
		Bool("database", cfg.DatabaseURL != "").
		Str("seed_path", cfg.SeedPath).
		Dur("catalog_cache_ttl", cfg.CatalogCacheTTL).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Strs("trusted_proxies", cfg.TrustedProxies).
		Float64("rate_limit_rps", cfg.RateLimitRPS).
		Msg("configuration loaded")

	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%s out of range: %d", EnvPort, c.Port)
	}
	if c.GRPCHealthPort < 0 || c.GRPCHealthPort > 65535 {
		return fmt.Errorf("%s out of range: %d", EnvGRPCHealthPort, c.GRPCHealthPort)
	}
	if c.GRPCHealthPort == c.Port {
		return errors.New("HTTP and gRPC health ports must differ")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("%s must be at least 1 when rate limiting is enabled", EnvRateLimitBurst)
	}
	return nil
}

func validProxy(s string) bool {
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		return err == nil
	}
	return net.ParseIP(s) != nil
}

func intEnv(logger zerolog.Logger, name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logger.Warn().Str("value", v).Msgf("invalid %s, using default", name)
		return def
	}
	return parsed
}

func boolEnv(logger zerolog.Logger, name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		logger.Warn().Str("value", v).Msgf("invalid %s, using default", name)
		return def
	}
	return parsed
}
