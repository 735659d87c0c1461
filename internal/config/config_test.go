package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads. Empty values are ignored by the
// decoder, so host settings cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		FileEnv, "PORT", "CHANNEL_NAME", "CHAINCODE_NAME", "USER_NAME", "LEDGER_URL",
		"LEDGER_TIMEOUT", "LEDGER_TOKEN_SECRET", "LEDGER_RESULT_PATH", "NOTIFY_TIMEOUT",
		"SWAGGER_USER", "SWAGGER_PASSWORD", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP_SCHEDULE", "RATE_LIMIT_IDLE_TTL",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv("CHANNEL_NAME", "korechannel")
	t.Setenv("CHAINCODE_NAME", "korecc")
	t.Setenv("USER_NAME", "gateway")
	t.Setenv("LEDGER_URL", "http://ledger:8545")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LEDGER_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, .b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Ledger.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, "admin", cfg.Auth.User)
	assert.Equal(t, 0, cfg.RateLimit.RPS, "rate limiting is opt-in")
	assert.Equal(t, []string{"https://a.example.com", ".b.example.com"}, cfg.CORS.Origins())

	id := cfg.Identity()
	assert.Equal(t, "gateway", id.User)
	assert.Equal(t, "korechannel", id.Channel)
	assert.Equal(t, "korecc", id.Contract)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 4000
ledger:
  channel: filechannel
  chaincode: filecc
  user: fileuser
  url: http://file-ledger
  timeout: 45s
rate_limit:
  rps: 5
  burst: 10
`), 0o600))

	clearEnv(t)
	t.Setenv(FileEnv, path)
	t.Setenv("USER_NAME", "envuser")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "filechannel", cfg.Ledger.Channel)
	assert.Equal(t, "envuser", cfg.Ledger.User)
	assert.Equal(t, 45*time.Second, cfg.Ledger.Timeout)
	assert.Equal(t, 5, cfg.RateLimit.RPS)
	assert.Equal(t, "@every 5m", cfg.RateLimit.CleanupSchedule)
}

func TestLoadMissingFile(t *testing.T) {
	setRequired(t)
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Default()
		c.Ledger.Channel = "ch"
		c.Ledger.Chaincode = "cc"
		c.Ledger.User = "u"
		c.Ledger.URL = "http://ledger"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing ledger", func(c *Config) { c.Ledger.URL = ""; c.Ledger.User = " " }, "missing required settings: LEDGER_URL, USER_NAME"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "invalid port 70000"},
		{"zero timeout", func(c *Config) { c.Notify.Timeout = 0 }, "timeouts must be positive"},
		{"zero burst", func(c *Config) { c.RateLimit.RPS = 5; c.RateLimit.Burst = 0 }, "rate limit burst must be positive"},
		{"limiter off", func(c *Config) { c.RateLimit.RPS = 0; c.RateLimit.Burst = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestRateLimiterOffByDefault(t *testing.T) {
	rl := Default().RateLimit
	assert.Zero(t, rl.RPS)
	assert.Equal(t, 100, rl.Burst)

	c := Default()
	c.Ledger = LedgerConfig{URL: "http://ledger", User: "u", Channel: "ch", Chaincode: "cc", Timeout: time.Second}
	require.NoError(t, c.Validate())
}

func TestOriginsEmpty(t *testing.T) {
	assert.Nil(t, CORSConfig{}.Origins())
}
