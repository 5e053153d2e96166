package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// BotConfig configures the Discord slash-command bot
type BotConfig struct {
	Token       string `env:"DISCORD_TOKEN" validate:"required"`
	AppID       string `env:"DISCORD_APP_ID" validate:"required"`
	APIURL      string `env:"API_URL" envDefault:"http://localhost:8080" validate:"url"`
	APIKey      string `env:"API_KEY"`
	HealthPort  string `env:"DISCORD_HEALTH_PORT" envDefault:"8082" validate:"numeric"`
	ForceUpdate bool   `env:"DISCORD_FORCE_COMMAND_UPDATE" envDefault:"false"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=json text"`
	Version     string `env:"VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
}

// LoadBot loads the bot configuration from .env and the environment
func LoadBot() (*BotConfig, error) {
	_ = godotenv.Load()

	cfg := &BotConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := structValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid bot configuration: %w", err)
	}
	return cfg, nil
}
