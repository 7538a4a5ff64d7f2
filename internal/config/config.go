package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Till"`
	}

	API struct {
		URL     string        `envconfig:"API_URL" default:"http://127.0.0.1:5001/api"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
		// AdminKey is sent with reset requests when the server expects one.
		AdminKey string `envconfig:"ADMIN_KEY"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
		File  string `envconfig:"LOG_FILE" default:"till.log"`
	}

	Transactions struct {
		PageSize int `envconfig:"TX_PAGE_SIZE" default:"10"`
	}

	Export struct {
		Dir string `envconfig:"EXPORT_DIR" default:"./exports"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be positive, got %s", cfg.API.Timeout)
	}

	if cfg.Transactions.PageSize < 1 {
		return nil, fmt.Errorf("TX_PAGE_SIZE must be at least 1, got %d", cfg.Transactions.PageSize)
	}

	return &cfg, nil
}
