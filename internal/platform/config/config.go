package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"together/pkg/domain"
)

// Config is the full process configuration. Values come from defaults, then
// an optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Server   Server         `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Names    NamesConfig    `yaml:"names"`
	Policy   PolicyConfig   `yaml:"policy"`
	Token    TokenConfig    `yaml:"token"`
	Relay    RelayConfig    `yaml:"relay"`
	Limits   LimitsConfig   `yaml:"limits"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	LogLevel        string        `yaml:"log_level"`
	JWTSigningKey   string        `yaml:"jwt_signing_key"`
	JWTIssuer       string        `yaml:"jwt_issuer"`
	JWTAudience     string        `yaml:"jwt_audience"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PostgresConfig selects the durable ledger. An empty URL keeps everything in memory.
type PostgresConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

// RedisConfig configures the name lookup cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	NameCacheTTL time.Duration `yaml:"name_cache_ttl"`
}

// KafkaConfig configures event publishing. No brokers means events are only logged.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

// NamesConfig configures the name-ownership oracle.
type NamesConfig struct {
	ResolverURL string        `yaml:"resolver_url"`
	Timeout     time.Duration `yaml:"timeout"`
	// Named lists identities treated as name owners when no resolver is configured.
	Named []string `yaml:"named"`
}

// PolicyConfig holds the administrative identity and the initial economic parameters.
type PolicyConfig struct {
	Owner            domain.Identity `yaml:"owner"`
	ProposalCost     domain.Amount   `yaml:"proposal_cost"`
	UpdateStatusCost domain.Amount   `yaml:"update_status_cost"`
	ResponseWindow   time.Duration   `yaml:"response_window"`
}

// TokenConfig configures the minting bridge.
type TokenConfig struct {
	BaseURI string          `yaml:"base_uri"`
	Minter  domain.Identity `yaml:"minter"`
}

// RelayConfig tunes the outbox relay.
type RelayConfig struct {
	Interval  time.Duration `yaml:"interval"`
	BatchSize int           `yaml:"batch_size"`
}

// LimitsConfig throttles clients by IP. Zero requests disables a class.
type LimitsConfig struct {
	Disabled      bool          `yaml:"disabled"`
	ReadRequests  int           `yaml:"read_requests"`
	WriteRequests int           `yaml:"write_requests"`
	Window        time.Duration `yaml:"window"`
}

// Default economic parameters.
var (
	DefaultProposalCost     = domain.MustEther("0.01")
	DefaultUpdateStatusCost = domain.MustEther("0.005")
	DefaultResponseWindow   = 300 * time.Second
)

// Defaults returns a configuration suitable for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:     ":8080",
			LogLevel: "info",
			// Use a default for development - should be overridden in production
			JWTSigningKey:   "dev-secret-key-change-in-production",
			JWTIssuer:       "together",
			JWTAudience:     "together-api",
			ShutdownTimeout: 10 * time.Second,
		},
		Postgres: PostgresConfig{MaxConns: 10},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			NameCacheTTL: time.Minute,
		},
		Kafka: KafkaConfig{Topic: "union-events", ClientID: "together"},
		Names: NamesConfig{Timeout: 3 * time.Second},
		Policy: PolicyConfig{
			ProposalCost:     DefaultProposalCost,
			UpdateStatusCost: DefaultUpdateStatusCost,
			ResponseWindow:   DefaultResponseWindow,
		},
		Token: TokenConfig{
			BaseURI: "ipfs://together/",
			Minter:  domain.MustIdentity("0x000000000000000000000000000000000000a11a"),
		},
		Relay:  RelayConfig{Interval: time.Second, BatchSize: 100},
		Limits: LimitsConfig{ReadRequests: 300, WriteRequests: 60, Window: time.Minute},
	}
}

// FromEnv builds the configuration from defaults, CONFIG_FILE and environment
// variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Server.Addr, "TOGETHER_ADDR")
	setString(&c.Server.LogLevel, "LOG_LEVEL")
	setString(&c.Server.JWTSigningKey, "JWT_SIGNING_KEY")
	setString(&c.Server.JWTIssuer, "JWT_ISSUER")
	setString(&c.Server.JWTAudience, "JWT_AUDIENCE")
	setString(&c.Postgres.URL, "DATABASE_URL")
	setString(&c.Redis.URL, "REDIS_URL")
	setString(&c.Kafka.Topic, "KAFKA_TOPIC")
	setString(&c.Names.ResolverURL, "NAME_RESOLVER_URL")
	setString(&c.Token.BaseURI, "TOKEN_BASE_URI")
	setList(&c.Kafka.Brokers, "KAFKA_BROKERS")
	setList(&c.Names.Named, "NAMED_IDENTITIES")

	if err := setDuration(&c.Server.ShutdownTimeout, "SHUTDOWN_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.Redis.NameCacheTTL, "NAME_CACHE_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.Names.Timeout, "NAME_RESOLVER_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.Policy.ResponseWindow, "RESPONSE_WINDOW"); err != nil {
		return err
	}
	if err := setDuration(&c.Relay.Interval, "RELAY_INTERVAL"); err != nil {
		return err
	}
	if err := setDuration(&c.Limits.Window, "RATE_LIMIT_WINDOW"); err != nil {
		return err
	}
	if v := os.Getenv("RATE_LIMIT_DISABLED"); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_DISABLED: %w", err)
		}
		c.Limits.Disabled = disabled
	}
	if v := os.Getenv("OWNER_IDENTITY"); v != "" {
		owner, err := domain.ParseIdentity(v)
		if err != nil {
			return fmt.Errorf("OWNER_IDENTITY: %w", err)
		}
		c.Policy.Owner = owner
	}
	if v := os.Getenv("MINTER_IDENTITY"); v != "" {
		minter, err := domain.ParseIdentity(v)
		if err != nil {
			return fmt.Errorf("MINTER_IDENTITY: %w", err)
		}
		c.Token.Minter = minter
	}
	if v := os.Getenv("PROPOSAL_COST"); v != "" {
		cost, err := domain.ParseEther(v)
		if err != nil {
			return fmt.Errorf("PROPOSAL_COST: %w", err)
		}
		c.Policy.ProposalCost = cost
	}
	if v := os.Getenv("UPDATE_STATUS_COST"); v != "" {
		cost, err := domain.ParseEther(v)
		if err != nil {
			return fmt.Errorf("UPDATE_STATUS_COST: %w", err)
		}
		c.Policy.UpdateStatusCost = cost
	}
	if err := setInt(&c.Limits.ReadRequests, "RATE_LIMIT_READ"); err != nil {
		return err
	}
	if err := setInt(&c.Limits.WriteRequests, "RATE_LIMIT_WRITE"); err != nil {
		return err
	}
	if v := os.Getenv("RELAY_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RELAY_BATCH_SIZE: %w", err)
		}
		c.Relay.BatchSize = n
	}
	return nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if c.Policy.Owner.IsZero() {
		return fmt.Errorf("owner identity is required (OWNER_IDENTITY)")
	}
	if c.Token.Minter.IsZero() {
		return fmt.Errorf("minter identity is required (MINTER_IDENTITY)")
	}
	if c.Policy.ResponseWindow <= 0 {
		return fmt.Errorf("response window must be positive")
	}
	if c.Relay.Interval <= 0 || c.Relay.BatchSize <= 0 {
		return fmt.Errorf("relay interval and batch size must be positive")
	}
	if !c.Limits.Disabled && c.Limits.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	for _, named := range c.Names.Named {
		if _, err := domain.ParseIdentity(named); err != nil {
			return fmt.Errorf("named identity %q: %w", named, err)
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
