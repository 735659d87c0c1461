// Package config loads gateway settings from an optional YAML file and the
// environment. Environment values override file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/R3E-Network/korechain_gateway/internal/ledger"
)

// FileEnv names the environment variable pointing at the YAML config file.
const FileEnv = "GATEWAY_CONFIG_FILE"

// Config holds every gateway setting.
type Config struct {
	Port      int             `yaml:"port" env:"PORT"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Notify    NotifyConfig    `yaml:"notify"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// LedgerConfig identifies the ledger endpoint and the identity calls run as.
type LedgerConfig struct {
	Channel     string        `yaml:"channel" env:"CHANNEL_NAME"`
	Chaincode   string        `yaml:"chaincode" env:"CHAINCODE_NAME"`
	User        string        `yaml:"user" env:"USER_NAME"`
	URL         string        `yaml:"url" env:"LEDGER_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"LEDGER_TIMEOUT"`
	TokenSecret string        `yaml:"token_secret" env:"LEDGER_TOKEN_SECRET"`
	ResultPath  string        `yaml:"result_path" env:"LEDGER_RESULT_PATH"`
}

type NotifyConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"NOTIFY_TIMEOUT"`
}

// AuthConfig holds the basic auth credentials. Password may be a bcrypt hash.
type AuthConfig struct {
	User     string `yaml:"user" env:"SWAGGER_USER"`
	Password string `yaml:"password" env:"SWAGGER_PASSWORD"`
}

// CORSConfig lists allowed origins as a comma separated string.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
}

type RateLimitConfig struct {
	RPS             int           `yaml:"rps" env:"RATE_LIMIT_RPS"`
	Burst           int           `yaml:"burst" env:"RATE_LIMIT_BURST"`
	CleanupSchedule string        `yaml:"cleanup_schedule" env:"RATE_LIMIT_CLEANUP_SCHEDULE"`
	IdleTTL         time.Duration `yaml:"idle_ttl" env:"RATE_LIMIT_IDLE_TTL"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Default returns the settings used when neither file nor environment
// provides a value.
func Default() Config {
	return Config{
		Port:   3000,
		Ledger: LedgerConfig{Timeout: ledger.DefaultTimeout},
		Notify: NotifyConfig{Timeout: 10 * time.Second},
		Auth:   AuthConfig{User: "admin"},
		RateLimit: RateLimitConfig{
			RPS:             0,
			Burst:           100,
			CleanupSchedule: "@every 5m",
			IdleTTL:         10 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads .env (when present), the YAML file named by GATEWAY_CONFIG_FILE
// and the environment, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if err := envdecode.Decode(c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

// Validate reports missing or out of range settings.
func (c *Config) Validate() error {
	var missing []string
	for env, v := range map[string]string{
		"CHANNEL_NAME":   c.Ledger.Channel,
		"CHAINCODE_NAME": c.Ledger.Chaincode,
		"USER_NAME":      c.Ledger.User,
		"LEDGER_URL":     c.Ledger.URL,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Ledger.Timeout <= 0 || c.Notify.Timeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return errors.New("rate limit burst must be positive")
	}
	return nil
}

// Identity returns the ledger identity every call runs as.
func (c *Config) Identity() ledger.Identity {
	return ledger.Identity{User: c.Ledger.User, Channel: c.Ledger.Channel, Contract: c.Ledger.Chaincode}
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Origins splits the allowed CORS origins.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
