package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

const (
	IdentityWhop     = "whop"
	IdentityKeycloak = "keycloak"

	MessageAPI  = "api"
	MessageSMTP = "smtp"
)

type AppConfig struct {
	AppEnv   string // EnvDevelopment or EnvProduction
	LogLevel slog.Level
	Port     string

	PostgresURL    string
	RedisURL       string
	StorageTimeout time.Duration

	IdentityProvider       string // IdentityWhop or IdentityKeycloak
	IdentityCacheTTL       time.Duration
	WhopAPIURL             string
	WhopProductID          string
	KeycloakURL            string
	KeycloakRealm          string
	KeycloakSubscriberRole string

	MessageProvider    string // MessageAPI or MessageSMTP
	MessageAPIURL      string
	MessageAPIKey      string
	SMTPHost           string
	SMTPPort           string
	SMTPFrom           string
	SMTPPassword       string
	AlertFlushInterval time.Duration

	AppBaseURL          string
	OutboundProxyURL    string
	RequireSubscription bool
	RateLimitPerMinute  int
}

var Config AppConfig

func LoadConfig() {
	cfg, err := Load(os.Getenv)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	Config = cfg
}

// Load reads the configuration through getenv. It reports every missing required variable at once.
func Load(getenv func(string) string) (AppConfig, error) {
	e := &env{getenv: getenv}
	cfg := AppConfig{}

	cfg.AppEnv = e.loadOptional("APP_ENV", EnvDevelopment)
	cfg.Port = e.loadOptional("PORT", "8080")

	lvlString := e.loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.PostgresURL = e.loadRequired("POSTGRES_URL")
	cfg.RedisURL = e.loadOptional("REDIS_URL", "")
	cfg.StorageTimeout = e.loadDuration("STORAGE_TIMEOUT", 10*time.Second)

	cfg.IdentityProvider = strings.ToLower(e.loadOptional("IDENTITY_PROVIDER", IdentityWhop))
	cfg.IdentityCacheTTL = e.loadDuration("IDENTITY_CACHE_TTL", 60*time.Second)
	cfg.RequireSubscription = e.loadBool("REQUIRE_SUBSCRIPTION", true)
	switch cfg.IdentityProvider {
	case IdentityWhop:
		cfg.WhopAPIURL = e.loadOptional("WHOP_API_URL", "https://api.whop.com/api/v5")
		if cfg.RequireSubscription {
			cfg.WhopProductID = e.loadRequired("WHOP_PRODUCT_ID")
		} else {
			cfg.WhopProductID = e.loadOptional("WHOP_PRODUCT_ID", "")
		}
	case IdentityKeycloak:
		cfg.KeycloakURL = e.loadRequired("KEYCLOAK_URL")
		cfg.KeycloakRealm = e.loadRequired("KEYCLOAK_REALM")
		cfg.KeycloakSubscriberRole = e.loadOptional("KEYCLOAK_SUBSCRIBER_ROLE", "subscriber")
	default:
		e.invalid("IDENTITY_PROVIDER", cfg.IdentityProvider)
	}

	cfg.MessageProvider = strings.ToLower(e.loadOptional("MESSAGE_PROVIDER", MessageAPI))
	switch cfg.MessageProvider {
	case MessageAPI:
		cfg.MessageAPIURL = e.loadRequired("MESSAGE_API_URL")
		cfg.MessageAPIKey = e.loadOptional("MESSAGE_API_KEY", "")
	case MessageSMTP:
		cfg.SMTPHost = e.loadRequired("SMTP_HOST")
		cfg.SMTPPort = e.loadRequired("SMTP_PORT")
		cfg.SMTPFrom = e.loadRequired("SMTP_FROM")
		cfg.SMTPPassword = e.loadRequired("SMTP_PASSWORD")
	default:
		e.invalid("MESSAGE_PROVIDER", cfg.MessageProvider)
	}
	cfg.AlertFlushInterval = e.loadDuration("ALERT_FLUSH_INTERVAL", time.Minute)

	cfg.AppBaseURL = strings.TrimSuffix(e.loadOptional("APP_BASE_URL", ""), "/")
	cfg.OutboundProxyURL = e.loadOptional("OUTBOUND_PROXY_URL", "")
	cfg.RateLimitPerMinute = e.loadInt("RATE_LIMIT_PER_MINUTE", 120)

	if err := e.err(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

type env struct {
	getenv   func(string) string
	problems []string
}

func (e *env) loadRequired(key string) string {
	value := e.getenv(key)
	if value == "" {
		e.problems = append(e.problems, key+" is required")
	}
	return value
}

func (e *env) loadOptional(key, defaultValue string) string {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (e *env) loadInt(key string, defaultValue int) int {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		e.invalid(key, value)
		return defaultValue
	}
	return n
}

func (e *env) loadBool(key string, defaultValue bool) bool {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		e.invalid(key, value)
		return defaultValue
	}
	return b
}

func (e *env) loadDuration(key string, defaultValue time.Duration) time.Duration {
	value := e.getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		e.invalid(key, value)
		return defaultValue
	}
	return d
}

func (e *env) invalid(key, value string) {
	e.problems = append(e.problems, fmt.Sprintf("%s has invalid value %q", key, value))
}

func (e *env) err() error {
	if len(e.problems) == 0 {
		return nil
	}
	return fmt.Errorf("config: %s", strings.Join(e.problems, "; "))
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
