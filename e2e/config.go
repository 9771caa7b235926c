package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogLevel     string `envconfig:"E2E_LOG_LEVEL" default:"ERROR"`
	HistoryLimit int    `envconfig:"E2E_HISTORY_LIMIT" default:"1000"`
	// E2E_COLOURS enables colorized console output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
