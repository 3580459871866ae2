package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is read from an optional YAML file, then overridden by the
// environment. Every variable may carry the LCFLOW_ prefix; the bare name
// is honoured as well (APP_PORT, MYSQL_HOST, ...).
type Config struct {
	AppPort   string `yaml:"app_port" envconfig:"APP_PORT"`
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	DBDriver   string `yaml:"db_driver" envconfig:"DB_DRIVER"`
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	MySQLHost  string `yaml:"mysql_host" envconfig:"MYSQL_HOST"`
	MySQLPort  string `yaml:"mysql_port" envconfig:"MYSQL_PORT"`
	MySQLDB    string `yaml:"mysql_db" envconfig:"MYSQL_DB"`
	MySQLUser  string `yaml:"mysql_user" envconfig:"MYSQL_USER"`
	MySQLPass  string `yaml:"mysql_pass" envconfig:"MYSQL_PASS"`

	RedisAddr     string `yaml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" envconfig:"REDIS_DB"`

	IdempDisabled  bool `yaml:"idempotency_disabled" envconfig:"IDEMPOTENCY_DISABLED"`
	IdempTTLSecs   int  `yaml:"idempotency_ttl_seconds" envconfig:"IDEMPOTENCY_TTL_SECONDS"`
	SessionTTLSecs int  `yaml:"session_ttl_seconds" envconfig:"SESSION_TTL_SECONDS"`
	EnforceRoles   bool `yaml:"enforce_roles" envconfig:"ENFORCE_ROLES"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`

	// "simulated" or "relay"
	AnchorMode      string `yaml:"anchor_mode" envconfig:"ANCHOR_MODE"`
	RelayURL        string `yaml:"relay_url" envconfig:"RELAY_URL"`
	RelayAPIKey     string `yaml:"relay_api_key" envconfig:"RELAY_API_KEY"`
	RelayMaxRetries uint64 `yaml:"relay_max_retries" envconfig:"RELAY_MAX_RETRIES"`
	ChainID         int64  `yaml:"chain_id" envconfig:"CHAIN_ID"`

	WebhookURL        string            `yaml:"webhook_url" envconfig:"WEBHOOK_URL"`
	WebhookHeaders    map[string]string `yaml:"webhook_headers" envconfig:"WEBHOOK_HEADERS"`
	WebhookMaxRetry   int               `yaml:"webhook_max_retry" envconfig:"WEBHOOK_MAX_RETRY"`
	WorkerConcurrency int               `yaml:"worker_concurrency" envconfig:"WORKER_CONCURRENCY"`

	ShutdownTimeoutSecs int `yaml:"shutdown_timeout_seconds" envconfig:"SHUTDOWN_TIMEOUT_SECONDS"`
}

const envPrefix = "lcflow"

// Load reads path when it exists; a missing file is not an error.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.AppPort, "8080")
	setDefault(&c.LogLevel, "info")
	setDefault(&c.LogFormat, "text")
	setDefault(&c.DBDriver, "mysql")
	setDefault(&c.SQLitePath, "lcflow.db")
	setDefault(&c.MySQLHost, "mysql")
	setDefault(&c.MySQLPort, "3306")
	setDefault(&c.MySQLDB, "lcflow")
	setDefault(&c.MySQLUser, "lcflow")
	setDefault(&c.RedisAddr, "redis:6379")
	setDefault(&c.AnchorMode, "simulated")

	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.AnchorMode = strings.ToLower(strings.TrimSpace(c.AnchorMode))

	if c.IdempTTLSecs == 0 {
		c.IdempTTLSecs = 300
	}
	if c.SessionTTLSecs == 0 {
		c.SessionTTLSecs = 86400
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst == 0 {
		c.RateLimitBurst = 2 * int(c.RateLimitRPS)
		if c.RateLimitBurst < 1 {
			c.RateLimitBurst = 1
		}
	}
	if c.RelayMaxRetries == 0 {
		c.RelayMaxRetries = 3
	}
	if c.ChainID == 0 {
		c.ChainID = 43113
	}
	if c.WebhookMaxRetry == 0 {
		c.WebhookMaxRetry = 5
	}
	if c.WorkerConcurrency == 0 {
		c.WorkerConcurrency = 4
	}
	if c.ShutdownTimeoutSecs == 0 {
		c.ShutdownTimeoutSecs = 10
	}
}

func setDefault(v *string, d string) {
	if strings.TrimSpace(*v) == "" {
		*v = d
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", c.DBDriver)
	}
	switch c.AnchorMode {
	case "simulated":
	case "relay":
		if c.RelayURL == "" {
			return errors.New("ANCHOR_MODE=relay requires RELAY_URL")
		}
	default:
		return fmt.Errorf("unsupported ANCHOR_MODE %q (want simulated or relay)", c.AnchorMode)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS %v", c.RateLimitRPS)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN is the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) SessionTTL() time.Duration { return time.Duration(c.SessionTTLSecs) * time.Second }

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}
