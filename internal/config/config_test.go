package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DatabaseURL: "postgres://localhost/marktrack",
		JWT: JWTConfig{
			Secret:         "secret",
			TTL:            30 * time.Minute,
			TokenTransport: TransportBoth,
		},
		RoleCodes: RoleCodesConfig{
			TeacherCode:       "TEACH-2024",
			AdminCode:         "ADMIN-2024",
			StudentCodePrefix: "STU",
		},
		RateLimits: RateLimitConfig{LoginPerMinute: 5, RegisterPerMinute: 3},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "empty secret",
			mutate:  func(c *Config) { c.JWT.Secret = " " },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.JWT.TokenTransport = "header" },
			wantErr: "TOKEN_TRANSPORT",
		},
		{
			name:    "same teacher and admin code",
			mutate:  func(c *Config) { c.RoleCodes.AdminCode = c.RoleCodes.TeacherCode },
			wantErr: "must differ",
		},
		{
			name:    "admin code captured by student pattern",
			mutate:  func(c *Config) { c.RoleCodes.AdminCode = "STU1234" },
			wantErr: "student code pattern",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.RateLimits.LoginPerMinute = 0 },
			wantErr: "rate limits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/marktrack")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TEACHER_CODE", "TEACH-1")
	t.Setenv("ADMIN_CODE", "ADMIN-1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "STU", cfg.RoleCodes.StudentCodePrefix)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, TransportBoth, cfg.JWT.TokenTransport)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, "DEBUG", cfg.LogLevel.String())
	assert.Equal(t, 5, cfg.RateLimits.LoginPerMinute)
}
