package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	logger := zerolog.New(zerolog.NewConsoleWriter())

	tests := []struct {
		name          string
		env           map[string]string
		expectedError string
		validate      func(t *testing.T, cfg Config)
	}{
		{
			name: "Defaults",
			env:  nil,
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "Ports and database",
			env: map[string]string{
				EnvPort:           "9000",
				EnvGRPCHealthPort: "9001",
				EnvDatabaseURL:    " postgres://u:p@localhost:5432/fleet ",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, 9000, cfg.Port)
				assert.Equal(t, 9001, cfg.GRPCHealthPort)
				assert.Equal(t, "postgres://u:p@localhost:5432/fleet", cfg.DatabaseURL)
			},
		},
		{
			name: "Invalid numbers keep defaults",
			env: map[string]string{
				EnvPort:            "eighty",
				EnvRateLimitRPS:    "-1",
				EnvRateLimitBurst:  "lots",
				EnvCatalogCacheTTL: "soon",
				EnvSeedOnStart:     "maybe",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, 8080, cfg.Port)
				assert.Equal(t, 20.0, cfg.RateLimitRPS)
				assert.Equal(t, 40, cfg.RateLimitBurst)
				assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
				assert.True(t, cfg.SeedOnStart)
			},
		},
		{
			name: "Seed and cache settings",
			env: map[string]string{
				EnvSeedPath:        "/etc/fleetcost/seed.yaml",
				EnvSeedOnStart:     "false",
				EnvCatalogCacheTTL: "0",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, "/etc/fleetcost/seed.yaml", cfg.SeedPath)
				assert.False(t, cfg.SeedOnStart)
				assert.Zero(t, cfg.CatalogCacheTTL)
			},
		},
		{
			name: "Allowed Origins - Mixed Wildcard",
			env: map[string]string{
				EnvCORSAllowedOrigins: "foo.com, *, bar.com",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, []string{"foo.com", "bar.com"}, cfg.AllowedOrigins)
				assert.True(t, cfg.AllowAllOrigins)
			},
		},
		{
			name: "Allowed Origins - Whitespace",
			env: map[string]string{
				EnvCORSAllowedOrigins: " a.com , b.com ",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, []string{"a.com", "b.com"}, cfg.AllowedOrigins)
				assert.False(t, cfg.AllowAllOrigins)
			},
		},
		{
			name: "Trusted proxies",
			env: map[string]string{
				EnvTrustedProxies: "10.0.0.1, 192.168.0.0/16, not-an-ip, 10.0.0.0/33",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
			},
		},
		{
			name: "Log settings",
			env: map[string]string{
				EnvLogLevel:  "DEBUG",
				EnvLogFormat: "console",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
				assert.Equal(t, "console", cfg.LogFormat)
			},
		},
		{
			name: "Invalid log settings fall back",
			env: map[string]string{
				EnvLogLevel:  "loud",
				EnvLogFormat: "xml",
			},
			validate: func(t *testing.T, cfg Config) {
				assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
				assert.Equal(t, "json", cfg.LogFormat)
			},
		},
		{
			name:          "Port out of range",
			env:           map[string]string{EnvPort: "70000"},
			expectedError: "out of range",
		},
		{
			name:          "Same HTTP and gRPC port",
			env:           map[string]string{EnvPort: "9000", EnvGRPCHealthPort: "9000"},
			expectedError: "must differ",
		},
		{
			name:          "Zero burst with rate limiting",
			env:           map[string]string{EnvRateLimitBurst: "0"},
			expectedError: EnvRateLimitBurst,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(logger)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoad_WarnsOnWildcard(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv(EnvCORSAllowedOrigins, "*")

	_, err := Load(zerolog.New(&buf))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "CORS wildcard origin")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, zerolog.WarnLevel, "json")

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"service":"fleetcost"`)
	assert.Contains(t, out, "shown")
}
