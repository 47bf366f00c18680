package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config aggregates all application configuration. Values come from the
// environment (a .env file, if present, is loaded by main before this runs).
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Exchange ExchangeConfig
	Catalog  CatalogConfig
	Chat     ChatConfig
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

type ServerConfig struct {
	Port string `env:"PORT" env-default:"8080"`
}

type OpenAIConfig struct {
	Key   string `env:"OPENAI_KEY"`
	OrgID string `env:"OPENAI_ORG_ID"`
	Model string `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

type ExchangeConfig struct {
	AppID   string `env:"OPENEXCHANGERATES_APP_ID"`
	BaseURL string `env:"OPENEXCHANGERATES_BASE_URL" env-default:"https://openexchangerates.org"`
}

type CatalogConfig struct {
	Path string `env:"CATALOG_PATH" env-default:"products_list.csv"`
}

type ChatConfig struct {
	// InitialToolChoice controls whether the first completion of a turn must
	// pick a tool ("required") or may answer directly ("auto").
	InitialToolChoice string `env:"CHAT_TOOL_CHOICE" env-default:"required"`
}

// MissingKeyError reports a required credential absent from the environment.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Key)
}

// Load reads configuration from the environment and checks that the
// credentials the service cannot run without are present.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env config: %w", err)
	}

	if cfg.OpenAI.Key == "" {
		return nil, &MissingKeyError{Key: "OPENAI_KEY"}
	}
	if cfg.Exchange.AppID == "" {
		return nil, &MissingKeyError{Key: "OPENEXCHANGERATES_APP_ID"}
	}

	return &cfg, nil
}
