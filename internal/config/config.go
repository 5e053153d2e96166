package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// Config holds the application configuration
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=json text"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"monsters"`
	Version     string `env:"VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	APIKey      string `env:"API_KEY" validate:"required"`

	// TrustedProxies are IPs or CIDRs whose X-Forwarded-For is believed
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Administrator is the deployer: the only caller allowed reservedMint and withdraw
	Administrator string `env:"ADMINISTRATOR_ADDRESS" validate:"required,eth_addr"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres" validate:"oneof=postgres sqlite"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432" validate:"numeric"`
	DBName      string `env:"DB_NAME" envDefault:"monsters"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/monsters.db"`

	LootBackend   string        `env:"LOOT_BACKEND" envDefault:"static" validate:"oneof=static rpc"`
	LootFixture   string        `env:"LOOT_FIXTURE" envDefault:"configs/loot_owners.yaml"`
	LootContract  string        `env:"LOOT_CONTRACT" envDefault:"0xff9c1b15b16263c61d017ee9f65c50e4ae0113d7" validate:"eth_addr"`
	EthRPCURL     string        `env:"ETH_RPC_URL" validate:"omitempty,url"`
	EthRPCTimeout time.Duration `env:"ETH_RPC_TIMEOUT" envDefault:"10s"`

	MetadataCacheSize int           `env:"METADATA_CACHE_SIZE" envDefault:"2048" validate:"min=1"`
	MetadataCacheTTL  time.Duration `env:"METADATA_CACHE_TTL" envDefault:"10m"`

	EventMaxRetries int           `env:"EVENT_MAX_RETRIES" envDefault:"5" validate:"min=0"`
	EventRetryDelay time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
	DeadLetterPath  string        `env:"EVENT_DEADLETTER_PATH" envDefault:"logs/event_deadletter.jsonl"`

	DiscordToken         string `env:"DISCORD_TOKEN"`
	DiscordChannelID     string `env:"DISCORD_CHANNEL_ID"`
	DiscordAnnounceMints bool   `env:"DISCORD_ANNOUNCE_MINTS" envDefault:"false"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the current environment into a Config and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the cross-field rules tags can't express.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.LootBackend == LootBackendRPC && c.EthRPCURL == "" {
		return fmt.Errorf("invalid configuration: ETH_RPC_URL is required when LOOT_BACKEND=rpc")
	}
	if c.DiscordChannelID != "" && c.DiscordToken == "" {
		return fmt.Errorf("invalid configuration: DISCORD_CHANNEL_ID set without DISCORD_TOKEN")
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	return nil
}

// AdministratorAddress parses the configured administrator.
func (c *Config) AdministratorAddress() (domain.Address, error) {
	return domain.ParseAddress(c.Administrator)
}

// LootContractAddress parses the configured Loot contract.
func (c *Config) LootContractAddress() (domain.Address, error) {
	return domain.ParseAddress(c.LootContract)
}

// DiscordEnabled reports whether slay announcements should be sent.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

// IsDevelopment reports whether the service runs in a dev environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "development"
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}
