package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Token transport modes
const (
	TransportBearer = "bearer"
	TransportCookie = "cookie"
	TransportBoth   = "both"
)

type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	LogLevelName string     `env:"LOG_LEVEL" env-default:"info"`
	LogLevel     slog.Level `env:"-"`

	DatabaseURL   string `env:"DATABASE_URL" env-required:"true"`
	RedisURL      string `env:"REDIS_URL"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" env-default:"true"`

	JWT        JWTConfig
	RoleCodes  RoleCodesConfig
	Events     EventsConfig
	RateLimits RateLimitConfig

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET" env-required:"true"`
	TTL            time.Duration `env:"JWT_TTL" env-default:"30m"`
	Issuer         string        `env:"JWT_ISSUER" env-default:"marktrack"`
	TokenTransport string        `env:"TOKEN_TRANSPORT" env-default:"both"`
	CookieSecure   bool          `env:"COOKIE_SECURE" env-default:"true"`
}

type RoleCodesConfig struct {
	TeacherCode       string `env:"TEACHER_CODE" env-required:"true"`
	AdminCode         string `env:"ADMIN_CODE" env-required:"true"`
	StudentCodePrefix string `env:"STUDENT_CODE_PREFIX" env-default:"STU"`
}

// StudentCodePattern matches the prefix followed by 4 or 5 digits.
func (c RoleCodesConfig) StudentCodePattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(c.StudentCodePrefix) + `\d{4,5}$`)
}

type EventsConfig struct {
	KafkaBrokers  []string `env:"KAFKA_BROKERS" env-separator:","`
	TopicPrefix   string   `env:"KAFKA_TOPIC_PREFIX" env-default:"marktrack"`
	ConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" env-default:"marktrack-notifications"`
}

type RateLimitConfig struct {
	LoginPerMinute    int `env:"RATE_LIMIT_LOGIN_PER_MINUTE" env-default:"5"`
	RegisterPerMinute int `env:"RATE_LIMIT_REGISTER_PER_MINUTE" env-default:"3"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// .env is optional, the environment always wins
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(cfg.LogLevelName)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevelName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	switch c.JWT.TokenTransport {
	case TransportBearer, TransportCookie, TransportBoth:
	default:
		errs = append(errs, fmt.Errorf("TOKEN_TRANSPORT must be one of bearer, cookie, both, got %q", c.JWT.TokenTransport))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}

	codes := c.RoleCodes
	if strings.TrimSpace(codes.TeacherCode) == "" || strings.TrimSpace(codes.AdminCode) == "" {
		errs = append(errs, errors.New("TEACHER_CODE and ADMIN_CODE must not be empty"))
	}
	if strings.TrimSpace(codes.StudentCodePrefix) == "" {
		errs = append(errs, errors.New("STUDENT_CODE_PREFIX must not be empty"))
	}
	if codes.TeacherCode != "" && codes.TeacherCode == codes.AdminCode {
		errs = append(errs, errors.New("TEACHER_CODE and ADMIN_CODE must differ"))
	}

	// The admin code would never be reached if the student pattern matched it first.
	if codes.StudentCodePattern().MatchString(codes.AdminCode) {
		errs = append(errs, errors.New("ADMIN_CODE must not match the student code pattern"))
	}

	if c.RateLimits.LoginPerMinute <= 0 || c.RateLimits.RegisterPerMinute <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
